package validate_session

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

type Request struct {
	SessionID string
}

type Response struct {
	Result  domain.ValidationResult
	Session *dto.SessionView
}

// Interactor validates every question of a session and stores the errors
// so later reads can show them.
type Interactor struct {
	Sessions contracts.SessionStore
}

func NewInteractor(sessions contracts.SessionStore) *Interactor {
	return &Interactor{Sessions: sessions}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*Response, error) {
	var res domain.ValidationResult
	s, err := it.Sessions.Update(ctx, req.SessionID, func(s *session.Session) error {
		e := s.Editor()
		res = e.Validate()
		s.Put(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Response{Result: res, Session: shared.View(s)}, nil
}
