package open_session

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
)

// Request opens a session over the questions of one kind of a quiz.
// With Inline set, Records seed the editor instead of the stored questions.
type Request struct {
	QuizID  string
	Kind    domain.Kind
	Inline  bool
	Records []domain.Question
}

type Interactor struct {
	ReadModel contracts.ReadModel
	Sessions  contracts.SessionStore
	Clock     clock.Clock
	Log       *logrus.Entry
}

func NewInteractor(readModel contracts.ReadModel, sessions contracts.SessionStore, clk clock.Clock, log *logrus.Entry) *Interactor {
	return &Interactor{
		ReadModel: readModel,
		Sessions:  sessions,
		Clock:     clk,
		Log:       shared.Logger(log),
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.SessionView, error) {
	if req.QuizID == "" {
		return nil, domain.ErrQuizIDRequired
	}
	if !req.Kind.Valid() {
		return nil, domain.ErrUnknownKind
	}

	records := req.Records
	if !req.Inline {
		rows, err := it.ReadModel.ListQuestions(ctx, req.QuizID, req.Kind)
		if err != nil {
			return nil, err
		}
		records = shared.QuestionsFromDTOs(req.Kind, rows)
	}

	e := domain.NewEditor(req.Kind)
	e.Reset(records)

	s := session.New(uuid.New().String(), req.QuizID, e, it.Clock.Now())
	if err := it.Sessions.Create(ctx, s); err != nil {
		return nil, err
	}

	it.Log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"quiz_id":    s.QuizID,
		"kind":       s.Kind,
		"questions":  len(s.State.Items),
	}).Info("editing session opened")

	return shared.View(s), nil
}
