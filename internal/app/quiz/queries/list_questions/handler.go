package list_questions

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
)

// Page is one slice of a quiz's stored questions. NextOffset is 0 on the
// last page.
type Page struct {
	Items      []*dto.QuestionDTO
	NextOffset int
}

type Handler struct {
	readModel contracts.ReadModel
}

func NewHandler(r contracts.ReadModel) *Handler {
	return &Handler{readModel: r}
}

func (h *Handler) Execute(ctx context.Context, quizID string, kind domain.Kind) ([]*dto.QuestionDTO, error) {
	if quizID == "" {
		return nil, domain.ErrQuizIDRequired
	}
	if !kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	return h.readModel.ListQuestions(ctx, quizID, kind)
}

// ExecutePage returns at most limit questions starting at offset, in
// position order. One extra row is read to tell whether a next page exists.
func (h *Handler) ExecutePage(ctx context.Context, quizID string, kind domain.Kind, limit, offset int) (*Page, error) {
	if quizID == "" {
		return nil, domain.ErrQuizIDRequired
	}
	if !kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := h.readModel.ListQuestionsPage(ctx, quizID, kind, limit+1, offset)
	if err != nil {
		return nil, err
	}
	if len(rows) <= limit {
		return &Page{Items: rows}, nil
	}
	return &Page{Items: rows[:limit], NextOffset: offset + limit}, nil
}
