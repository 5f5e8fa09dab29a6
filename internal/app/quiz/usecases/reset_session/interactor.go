package reset_session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

// Request replaces the editor content. Without Inline the stored questions
// are read again.
type Request struct {
	SessionID string
	Inline    bool
	Records   []domain.Question
}

type Interactor struct {
	ReadModel contracts.ReadModel
	Sessions  contracts.SessionStore
	Log       *logrus.Entry
}

func NewInteractor(readModel contracts.ReadModel, sessions contracts.SessionStore, log *logrus.Entry) *Interactor {
	return &Interactor{ReadModel: readModel, Sessions: sessions, Log: shared.Logger(log)}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.SessionView, error) {
	records := req.Records
	if !req.Inline {
		current, err := it.Sessions.Get(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		rows, err := it.ReadModel.ListQuestions(ctx, current.QuizID, current.Kind)
		if err != nil {
			return nil, err
		}
		records = shared.QuestionsFromDTOs(current.Kind, rows)
	}

	s, err := it.Sessions.Update(ctx, req.SessionID, func(s *session.Session) error {
		e := s.Editor()
		e.Reset(records)
		s.Put(e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	it.Log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"inline":     req.Inline,
		"questions":  len(s.State.Items),
	}).Info("editing session reset")

	return shared.View(s), nil
}
