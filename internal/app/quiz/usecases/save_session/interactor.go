package save_session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
	commitplan "github.com/murkotick/quiz-authoring-service/internal/pkg/committer"
)

// Save outcomes reported to metrics.
const (
	OutcomeSaved   = "saved"
	OutcomeNoop    = "noop"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

type Request struct {
	SessionID string
}

// Interactor writes the pending changes of a session in one transaction
// using the Golden Mutation Pattern, then re-baselines the session on the
// stored state.
type Interactor struct {
	QuestionRepo contracts.QuestionRepo
	OutboxRepo   contracts.OutboxRepo
	Committer    contracts.Committer
	ReadModel    contracts.ReadModel
	Sessions     contracts.SessionStore
	Metrics      contracts.SaveMetrics
	Clock        clock.Clock
	Log          *logrus.Entry

	// NewID assigns stored ids to created questions.
	NewID func() string
}

func NewInteractor(repo contracts.QuestionRepo, outboxRepo contracts.OutboxRepo, committer contracts.Committer,
	readModel contracts.ReadModel, sessions contracts.SessionStore, metrics contracts.SaveMetrics,
	clk clock.Clock, log *logrus.Entry) *Interactor {
	if metrics == nil {
		metrics = contracts.NopSaveMetrics{}
	}
	return &Interactor{
		QuestionRepo: repo,
		OutboxRepo:   outboxRepo,
		Committer:    committer,
		ReadModel:    readModel,
		Sessions:     sessions,
		Metrics:      metrics,
		Clock:        clk,
		Log:          shared.Logger(log),
		NewID:        domain.NewPersistedID,
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*dto.SaveResult, error) {
	started := time.Now()
	log := it.Log.WithField("session_id", req.SessionID)
	now := it.Clock.Now()

	// 1. Claim the session; a concurrent save is rejected until this one
	// releases it
	s, err := it.Sessions.Update(ctx, req.SessionID, func(cur *session.Session) error {
		return cur.ClaimSave(now)
	})
	if err != nil {
		return nil, err
	}
	kind := string(s.Kind)
	e := s.Editor()

	// 2. Validate; failures are kept on the session for the client to show
	if res := e.Validate(); !res.Valid {
		it.release(ctx, log, s.ID, func(cur *session.Session) {
			ed := cur.Editor()
			ed.Validate()
			cur.Put(ed)
		})
		it.Metrics.ObserveSave(kind, OutcomeInvalid, commitplan.Summary{}, time.Since(started))
		log.WithField("errors", len(res.Errors)).Info("save rejected by validation")
		return nil, domain.NewValidationError(res.Errors)
	}

	// 3. Collect mutations
	plan, idMap, created, err := it.buildPlan(s.QuizID, e, now)
	if err != nil {
		it.release(ctx, log, s.ID, nil)
		return nil, err
	}

	result := &dto.SaveResult{
		IDMap:    idMap,
		Inserted: plan.Summary().Inserts,
		Updated:  plan.Summary().Updates,
		Deleted:  plan.Summary().Deletes,
	}

	if plan.IsEmpty() {
		it.Metrics.ObserveSave(kind, OutcomeNoop, plan.Summary(), time.Since(started))
		if released := it.release(ctx, log, s.ID, nil); released != nil {
			s = released
		}
		result.Session = shared.View(s)
		return result, nil
	}

	// 4. Apply via committer; edits are kept on failure
	if err := it.Committer.Apply(ctx, plan); err != nil {
		it.release(ctx, log, s.ID, nil)
		it.Metrics.ObserveSave(kind, OutcomeFailed, plan.Summary(), time.Since(started))
		log.WithError(err).Error("save commit failed")
		return nil, errors.Wrap(err, "save questions")
	}
	it.Metrics.ObserveSave(kind, OutcomeSaved, plan.Summary(), time.Since(started))

	// 5. Re-baseline on the stored state and release the claim. The commit
	// cannot be undone, so this step never fails on a version change.
	records, err := it.reload(ctx, s)
	if err != nil {
		log.WithError(err).Warn("reload after save failed, rebasing locally")
		records = rebase(e, idMap, created)
	}

	saved, err := it.Sessions.Update(ctx, s.ID, func(cur *session.Session) error {
		if cur.Version != s.Version {
			log.WithFields(logrus.Fields{
				"claimed_version": s.Version,
				"current_version": cur.Version,
			}).Warn("session changed during save, edits made meanwhile are replaced")
		}
		cur.ReleaseSave()
		ed := cur.Editor()
		ed.Reset(records)
		cur.Put(ed)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "rebase session after save")
	}
	result.Session = shared.View(saved)

	log.WithFields(logrus.Fields{
		"quiz_id":  s.QuizID,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"deleted":  result.Deleted,
	}).Info("questions saved")

	return result, nil
}

// release drops the save claim, applying fn to the session first when set.
// It returns nil when the session could not be updated; the claim then runs
// out with its lease.
func (it *Interactor) release(ctx context.Context, log *logrus.Entry, id string, fn func(*session.Session)) *session.Session {
	s, err := it.Sessions.Update(ctx, id, func(cur *session.Session) error {
		if fn != nil {
			fn(cur)
		}
		cur.ReleaseSave()
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("could not release save claim")
		return nil
	}
	return s
}

func (it *Interactor) buildPlan(quizID string, e *domain.Editor, now time.Time) (*commitplan.Plan, map[string]string, map[string]domain.NewQuestion, error) {
	plan := commitplan.NewPlan()
	idMap := make(map[string]string)
	created := make(map[string]domain.NewQuestion)
	events := make([]domain.DomainEvent, 0)

	for _, nq := range e.New() {
		id := it.NewID()
		idMap[nq.LocalID] = id
		created[nq.LocalID] = nq
		plan.AddAs(commitplan.CategoryInsert, it.QuestionRepo.InsertMut(quizID, id, nq, now))
		events = append(events, &domain.QuestionCreatedEvent{
			QuizID:     quizID,
			QuestionID: id,
			LocalID:    nq.LocalID,
			Kind:       nq.Kind,
			Order:      nq.Order,
			CreatedAt:  now,
		})
	}

	for _, q := range e.Edited() {
		base, ok := e.Baseline(q.ID)
		if !ok {
			continue
		}
		changes := domain.CompareQuestions(base, q)
		if e.PositionStale(q.ID) {
			changes.MarkDirty(domain.FieldOrder)
		}
		mut := it.QuestionRepo.UpdateMut(quizID, q, changes, now)
		if mut == nil {
			continue
		}
		plan.AddAs(commitplan.CategoryUpdate, mut)
		events = append(events, &domain.QuestionUpdatedEvent{
			QuizID:     quizID,
			QuestionID: q.ID,
			Fields:     changes.DirtyFields(),
			UpdatedAt:  now,
		})
	}

	// stored positions that drifted from the list order
	for _, q := range e.Repositioned() {
		changes := domain.NewChangeTracker()
		changes.MarkDirty(domain.FieldOrder)
		plan.AddAs(commitplan.CategoryUpdate, it.QuestionRepo.UpdateMut(quizID, q, changes, now))
		events = append(events, &domain.QuestionUpdatedEvent{
			QuizID:     quizID,
			QuestionID: q.ID,
			Fields:     changes.DirtyFields(),
			UpdatedAt:  now,
		})
	}

	for _, d := range e.Deleted() {
		plan.AddAs(commitplan.CategoryDelete, it.QuestionRepo.DeleteMut(quizID, d.ID))
		events = append(events, &domain.QuestionDeletedEvent{
			QuizID:     quizID,
			QuestionID: d.ID,
			DeletedAt:  now,
		})
	}

	// Outbox events
	for _, ev := range events {
		out, err := shared.NewOutboxEvent(ev, now)
		if err != nil {
			return nil, nil, nil, err
		}
		plan.AddAs(commitplan.CategoryOutbox, it.OutboxRepo.InsertMut(out))
	}

	return plan, idMap, created, nil
}

func (it *Interactor) reload(ctx context.Context, s *session.Session) ([]domain.Question, error) {
	rows, err := it.ReadModel.ListQuestions(ctx, s.QuizID, s.Kind)
	if err != nil {
		return nil, err
	}
	return shared.QuestionsFromDTOs(s.Kind, rows), nil
}

// rebase rebuilds the stored state from the working list when it cannot be
// read back: created questions take their stored id and payload.
func rebase(e *domain.Editor, idMap map[string]string, created map[string]domain.NewQuestion) []domain.Question {
	items := e.Items()
	out := make([]domain.Question, 0, len(items))
	for _, q := range items {
		if nq, ok := created[q.ID]; ok {
			q = domain.ReconstructQuestion(idMap[q.ID], nq.Kind, nq.Order, nq.QuestionText, nq.Options,
				nq.CorrectAnswer, nq.AcceptedAnswers, nq.CaseSensitive, nq.Explanation, nq.Points)
		} else {
			q.Origin = domain.OriginPersisted
		}
		out = append(out, q)
	}
	return out
}
