package contracts

import (
	"time"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
)

// QuestionRepo is the write-side repository interface for quiz questions.
// Methods return Spanner mutations; they do not apply them.
type QuestionRepo interface {
	// InsertMut returns a mutation that stores q under questionID.
	InsertMut(quizID, questionID string, q domain.NewQuestion, now time.Time) *spanner.Mutation

	// UpdateMut writes the dirty fields of q, or returns nil when nothing is dirty.
	UpdateMut(quizID string, q domain.Question, changes *domain.ChangeTracker, now time.Time) *spanner.Mutation

	// DeleteMut removes one stored question.
	DeleteMut(quizID, questionID string) *spanner.Mutation
}
