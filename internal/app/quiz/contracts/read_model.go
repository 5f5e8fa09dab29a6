package contracts

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
)

type ReadModel interface {
	// ListQuestions returns the stored questions of one kind ordered by position.
	ListQuestions(ctx context.Context, quizID string, kind domain.Kind) ([]*dto.QuestionDTO, error)
	// ListQuestionsPage is ListQuestions limited to limit rows after offset.
	ListQuestionsPage(ctx context.Context, quizID string, kind domain.Kind, limit, offset int) ([]*dto.QuestionDTO, error)
}
