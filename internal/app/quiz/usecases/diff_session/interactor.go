package diff_session

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

type Request struct {
	SessionID string
}

// Interactor reports the pending changes of a session without modifying it.
type Interactor struct {
	Sessions contracts.SessionStore
}

func NewInteractor(sessions contracts.SessionStore) *Interactor {
	return &Interactor{Sessions: sessions}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.ChangesView, error) {
	s, err := it.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	return shared.Changes(s), nil
}
