package repo

import (
	"time"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/models/m_question"
)

// QuestionRepo is the Spanner implementation of the write-side repository.
// It returns *spanner.Mutation objects but never applies them.
type QuestionRepo struct{}

func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{}
}

// buildInsertValues constructs the values map used for insertion.
// It's unexported so tests in the same package can inspect the map without
// relying on spanner.Mutation internals.
func buildInsertValues(quizID, questionID string, q domain.NewQuestion, now time.Time) map[string]interface{} {
	var explanation *string
	if q.Explanation != "" {
		e := q.Explanation
		explanation = &e
	}

	// columns of the other kind are stored empty
	var options, accepted []string
	correct := ""
	caseSensitive := false
	switch q.Kind {
	case domain.KindMultipleChoice:
		options = q.Options
		correct = q.CorrectAnswer
	case domain.KindShortAnswer:
		accepted = q.AcceptedAnswers
		caseSensitive = q.CaseSensitive
	}

	return m_question.BuildInsertMap(quizID, questionID, string(q.Kind), int64(q.Order), q.QuestionText,
		options, correct, accepted, caseSensitive, explanation, int64(q.Points), now.UTC())
}

// InsertMut builds an Insert mutation for a question created in the editor.
func (r *QuestionRepo) InsertMut(quizID, questionID string, q domain.NewQuestion, now time.Time) *spanner.Mutation {
	return m_question.InsertMutation(buildInsertValues(quizID, questionID, q, now))
}

// buildUpdateValues maps the dirty fields of q to column values. Values are
// taken from the stored form, the same one inserts write.
func buildUpdateValues(cur domain.Question, changes *domain.ChangeTracker) map[string]interface{} {
	q := cur.StoredForm()
	updates := map[string]interface{}{}

	if changes.Dirty(domain.FieldOrder) {
		updates[m_question.ColPosition] = int64(q.Order)
	}
	if changes.Dirty(domain.FieldQuestionText) {
		updates[m_question.ColQuestionText] = q.QuestionText
	}
	if changes.Dirty(domain.FieldExplanation) {
		if q.Explanation == "" {
			updates[m_question.ColExplanation] = nil
		} else {
			updates[m_question.ColExplanation] = q.Explanation
		}
	}
	if changes.Dirty(domain.FieldPoints) {
		updates[m_question.ColPoints] = int64(q.Points)
	}
	if changes.Dirty(domain.FieldOptions) {
		updates[m_question.ColOptions] = nonNilStrings(q.Options)
	}
	if changes.Dirty(domain.FieldCorrectAnswer) {
		updates[m_question.ColCorrectAnswer] = q.CorrectAnswer
	}
	if changes.Dirty(domain.FieldAcceptedAnswers) {
		updates[m_question.ColAcceptedAnswers] = nonNilStrings(q.AcceptedAnswers)
	}
	if changes.Dirty(domain.FieldCaseSensitive) {
		updates[m_question.ColCaseSensitive] = q.CaseSensitive
	}
	if changes.Dirty(domain.FieldKind) {
		updates[m_question.ColKind] = string(q.Kind)
	}
	return updates
}

// UpdateMut builds an Update mutation from the fields marked dirty.
// It always stamps updated_at when there are changes.
func (r *QuestionRepo) UpdateMut(quizID string, q domain.Question, changes *domain.ChangeTracker, now time.Time) *spanner.Mutation {
	if !changes.HasChanges() {
		return nil
	}

	updates := buildUpdateValues(q, changes)
	if len(updates) == 0 {
		return nil
	}

	updates[m_question.ColUpdatedAt] = now.UTC()
	return m_question.UpdateMutation(quizID, q.ID, updates)
}

// DeleteMut removes a stored question.
func (r *QuestionRepo) DeleteMut(quizID, questionID string) *spanner.Mutation {
	if questionID == "" {
		return nil
	}
	return m_question.DeleteMutation(quizID, questionID)
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
