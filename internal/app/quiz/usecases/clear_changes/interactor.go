package clear_changes

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

type Request struct {
	SessionID string
}

// Interactor forgets the tracked changes of a session. The working list and
// baseline stay as they are.
type Interactor struct {
	Sessions contracts.SessionStore
}

func NewInteractor(sessions contracts.SessionStore) *Interactor {
	return &Interactor{Sessions: sessions}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.SessionView, error) {
	s, err := it.Sessions.Update(ctx, req.SessionID, func(s *session.Session) error {
		e := s.Editor()
		e.ClearChangeSets()
		s.Put(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shared.View(s), nil
}
