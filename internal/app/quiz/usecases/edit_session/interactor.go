package edit_session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

// Request applies one operation to a session. A non-zero ExpectedVersion
// must match the stored version.
type Request struct {
	SessionID       string
	ExpectedVersion int64
	Operation       domain.Operation
}

type Response struct {
	Result  domain.OperationResult
	Session *dto.SessionView
}

type Interactor struct {
	Sessions contracts.SessionStore
	Log      *logrus.Entry
}

func NewInteractor(sessions contracts.SessionStore, log *logrus.Entry) *Interactor {
	return &Interactor{Sessions: sessions, Log: shared.Logger(log)}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*Response, error) {
	var res domain.OperationResult
	s, err := it.Sessions.Update(ctx, req.SessionID, func(s *session.Session) error {
		if req.ExpectedVersion != 0 && s.Version != req.ExpectedVersion {
			return domain.ErrSessionConflict
		}
		e := s.Editor()
		out, err := domain.Apply(e, req.Operation)
		if err != nil {
			return err
		}
		res = out
		s.Put(e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	it.Log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"op":         req.Operation.Name,
		"applied":    res.Applied,
	}).Debug("edit applied")

	return &Response{Result: res, Session: shared.View(s)}, nil
}
