package queries

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries/list_questions"
)

// SpannerReadModel is an infrastructure adapter that satisfies contracts.ReadModel.
// It composes the individual query implementations.
type SpannerReadModel struct {
	listQ *list_questions.SpannerListQuestionsQuery
}

func NewSpannerReadModel(client *spanner.Client) *SpannerReadModel {
	return &SpannerReadModel{
		listQ: list_questions.NewSpannerListQuestionsQuery(client),
	}
}

func (rm *SpannerReadModel) ListQuestions(ctx context.Context, quizID string, kind domain.Kind) ([]*dto.QuestionDTO, error) {
	return rm.listQ.ListQuestions(ctx, quizID, kind)
}

func (rm *SpannerReadModel) ListQuestionsPage(ctx context.Context, quizID string, kind domain.Kind, limit, offset int) ([]*dto.QuestionDTO, error) {
	return rm.listQ.ListQuestionsPage(ctx, quizID, kind, limit, offset)
}
