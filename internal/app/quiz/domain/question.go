package domain

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Field constants for change tracking
const (
	FieldKind            = "kind"
	FieldOrder           = "order"
	FieldQuestionText    = "question_text"
	FieldOptions         = "options"
	FieldCorrectAnswer   = "correct_answer"
	FieldAcceptedAnswers = "accepted_answers"
	FieldCaseSensitive   = "case_sensitive"
	FieldExplanation     = "explanation"
	FieldPoints          = "points"
)

// Kind is the question type an editor works on.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindShortAnswer    Kind = "short_answer"
)

// Valid reports whether k is a known question kind.
func (k Kind) Valid() bool {
	return k == KindMultipleChoice || k == KindShortAnswer
}

// Origin tells whether a question exists in storage or only in the current
// editing session.
type Origin string

const (
	// OriginUnknown is used for loosely-typed input; the editor resolves it
	// from the id shape when the record enters the working list.
	OriginUnknown   Origin = ""
	OriginPersisted Origin = "persisted"
	OriginLocal     Origin = "local"
)

// PersistedIDLength is the length of ids issued by the store.
const PersistedIDLength = 24

const localIDPrefix = "tmp-"

// Question is one record of an ordered question list.
type Question struct {
	ID     string `json:"id"`
	Origin Origin `json:"origin"`
	Kind   Kind   `json:"kind"`
	Order  int    `json:"order"`

	QuestionText string `json:"question_text"`
	Explanation  string `json:"explanation,omitempty"`
	Points       int    `json:"points"`

	// multiple choice
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`

	// short answer
	AcceptedAnswers []string `json:"accepted_answers,omitempty"`
	CaseSensitive   bool     `json:"case_sensitive,omitempty"`
}

// ReconstructQuestion builds a Question from persisted state.
// Used by read models when loading from the database.
func ReconstructQuestion(id string, kind Kind, order int, text string, options []string, correct string,
	accepted []string, caseSensitive bool, explanation string, points int) Question {
	return Question{
		ID:              id,
		Origin:          OriginPersisted,
		Kind:            kind,
		Order:           order,
		QuestionText:    text,
		Options:         options,
		CorrectAnswer:   correct,
		AcceptedAnswers: accepted,
		CaseSensitive:   caseSensitive,
		Explanation:     explanation,
		Points:          points,
	}
}

// Persisted reports whether q is known to the store.
func (q Question) Persisted() bool {
	return q.Origin == OriginPersisted
}

// Clone returns a copy of q that shares no slices with it.
func (q Question) Clone() Question {
	q.Options = cloneStrings(q.Options)
	q.AcceptedAnswers = cloneStrings(q.AcceptedAnswers)
	return q
}

// IsPersistedID reports whether id has the shape of a store-issued id.
func IsPersistedID(id string) bool {
	if len(id) != PersistedIDLength {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// NewPersistedID returns a fresh store id (24 hex chars).
func NewPersistedID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:PersistedIDLength]
}

// NewLocalID returns a fresh client-local id.
func NewLocalID() string {
	u := uuid.New()
	return localIDPrefix + hex.EncodeToString(u[:4])
}

// newEmptyQuestion returns a blank record with kind-appropriate defaults.
func newEmptyQuestion(kind Kind, id string) Question {
	q := Question{
		ID:     id,
		Origin: OriginLocal,
		Kind:   kind,
		Points: 1,
	}
	switch kind {
	case KindMultipleChoice:
		q.Options = []string{"", ""}
	case KindShortAnswer:
		q.AcceptedAnswers = []string{""}
	}
	return q
}

// Equal reports whether a and b are the same under field-wise comparison
// with missing values treated as their zero default.
func Equal(a, b Question) bool {
	return !CompareQuestions(a, b).HasChanges()
}

// CompareQuestions returns a tracker with every field of current that differs
// from base.
func CompareQuestions(base, current Question) *ChangeTracker {
	ct := NewChangeTracker()
	if base.Kind != current.Kind {
		ct.MarkDirty(FieldKind)
	}
	if base.Order != current.Order {
		ct.MarkDirty(FieldOrder)
	}
	if norm(base.QuestionText) != norm(current.QuestionText) {
		ct.MarkDirty(FieldQuestionText)
	}
	if !equalLists(base.Options, current.Options) {
		ct.MarkDirty(FieldOptions)
	}
	if norm(base.CorrectAnswer) != norm(current.CorrectAnswer) {
		ct.MarkDirty(FieldCorrectAnswer)
	}
	if !equalLists(base.AcceptedAnswers, current.AcceptedAnswers) {
		ct.MarkDirty(FieldAcceptedAnswers)
	}
	if base.CaseSensitive != current.CaseSensitive {
		ct.MarkDirty(FieldCaseSensitive)
	}
	if norm(base.Explanation) != norm(current.Explanation) {
		ct.MarkDirty(FieldExplanation)
	}
	if base.Points != current.Points {
		ct.MarkDirty(FieldPoints)
	}
	return ct
}

// NewQuestion is the creation payload for a question that exists only in the
// editor.
type NewQuestion struct {
	LocalID         string   `json:"local_id"`
	Kind            Kind     `json:"kind"`
	Order           int      `json:"order"`
	QuestionText    string   `json:"question_text"`
	Options         []string `json:"options,omitempty"`
	CorrectAnswer   string   `json:"correct_answer,omitempty"`
	AcceptedAnswers []string `json:"accepted_answers,omitempty"`
	CaseSensitive   bool     `json:"case_sensitive,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
	Points          int      `json:"points"`
}

// DeletedQuestion is the stub kept for a persisted question removed from the
// list.
type DeletedQuestion struct {
	ID string `json:"id"`
}

// StoredForm returns q as it is written to storage: text fields trimmed and
// blank list entries dropped. Inserts and updates both write this form.
func (q Question) StoredForm() Question {
	out := q.Clone()
	out.QuestionText = norm(q.QuestionText)
	out.Explanation = norm(q.Explanation)
	out.CorrectAnswer = norm(q.CorrectAnswer)
	out.Options = nonBlank(q.Options)
	out.AcceptedAnswers = nonBlank(q.AcceptedAnswers)
	return out
}

func toNewQuestion(q Question) NewQuestion {
	st := q.StoredForm()
	out := NewQuestion{
		LocalID:      st.ID,
		Kind:         st.Kind,
		Order:        st.Order,
		QuestionText: st.QuestionText,
		Explanation:  st.Explanation,
		Points:       st.Points,
	}
	switch st.Kind {
	case KindMultipleChoice:
		out.Options = st.Options
		out.CorrectAnswer = st.CorrectAnswer
	case KindShortAnswer:
		out.AcceptedAnswers = st.AcceptedAnswers
		out.CaseSensitive = st.CaseSensitive
	}
	return out
}

func norm(s string) string {
	return strings.TrimSpace(s)
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if norm(a[i]) != norm(b[i]) {
			return false
		}
	}
	return true
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := norm(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
