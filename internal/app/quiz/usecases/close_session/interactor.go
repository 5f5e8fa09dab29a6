package close_session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

type Request struct {
	SessionID string
}

// Interactor discards a session; unsaved changes are lost.
type Interactor struct {
	Sessions contracts.SessionStore
	Log      *logrus.Entry
}

func NewInteractor(sessions contracts.SessionStore, log *logrus.Entry) *Interactor {
	return &Interactor{Sessions: sessions, Log: shared.Logger(log)}
}

func (it *Interactor) Execute(ctx context.Context, req Request) error {
	if err := it.Sessions.Delete(ctx, req.SessionID); err != nil {
		return err
	}
	it.Log.WithField("session_id", req.SessionID).Info("editing session closed")
	return nil
}
