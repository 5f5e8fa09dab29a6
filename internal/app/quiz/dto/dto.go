package dto

import (
	"time"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
)

// QuestionDTO is one stored question as returned by read queries. Nullable
// columns stay pointers; array columns are already ingested, so Malformed
// names the columns that held NULL elements.
type QuestionDTO struct {
	QuizID          string
	QuestionID      string
	Kind            string
	Position        int64
	QuestionText    string
	Options         []string
	CorrectAnswer   *string
	AcceptedAnswers []string
	CaseSensitive   bool
	Explanation     *string
	Points          int64
	Malformed       []string
}

// SessionView is the client-facing state of an editing session.
type SessionView struct {
	SessionID string
	QuizID    string
	Kind      domain.Kind
	Version   int64
	UpdatedAt time.Time

	Items      []domain.Question
	Errors     domain.ValidationErrors
	HasChanges bool
}

// ChangesView lists what a save would write.
type ChangesView struct {
	New     []domain.NewQuestion
	Edited  []domain.Question
	Deleted []domain.DeletedQuestion
}

// SaveResult reports a successful save.
type SaveResult struct {
	// IDMap maps the editor-local id of every created question to its
	// stored id.
	IDMap    map[string]string
	Inserted int
	Updated  int
	Deleted  int
	Session  *SessionView
}
