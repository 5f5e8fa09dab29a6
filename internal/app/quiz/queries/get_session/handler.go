package get_session

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

// Handler reads the current state of an editing session.
type Handler struct {
	sessions contracts.SessionStore
}

func NewHandler(s contracts.SessionStore) *Handler {
	return &Handler{sessions: s}
}

func (h *Handler) Execute(ctx context.Context, sessionID string) (*dto.SessionView, error) {
	s, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return shared.View(s), nil
}
