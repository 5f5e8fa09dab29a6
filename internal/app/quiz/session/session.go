// Package session keeps editor state between requests.
package session

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
)

// SaveLease bounds how long one save holds a session. A save that crashed
// stops blocking others once its lease runs out.
const SaveLease = 2 * time.Minute

// Session is one user's editing session over the questions of a quiz.
type Session struct {
	ID        string             `json:"id"`
	QuizID    string             `json:"quiz_id"`
	Kind      domain.Kind        `json:"kind"`
	State     domain.EditorState `json:"state"`
	Version   int64              `json:"version"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// SavingUntil is set while a save holds the session.
	SavingUntil *time.Time `json:"saving_until,omitempty"`
}

// New wraps the current state of e into a session at version 1.
func New(id, quizID string, e *domain.Editor, now time.Time) *Session {
	return &Session{
		ID:        id,
		QuizID:    quizID,
		Kind:      e.Kind(),
		State:     e.Snapshot(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Editor rebuilds a live editor from the stored state.
func (s *Session) Editor(opts ...domain.EditorOption) *domain.Editor {
	return domain.RestoreEditor(s.State, opts...)
}

// Put stores the state of e back into the session.
func (s *Session) Put(e *domain.Editor) {
	s.State = e.Snapshot()
}

// Saving reports whether a save holds the session at now.
func (s *Session) Saving(now time.Time) bool {
	return s.SavingUntil != nil && now.Before(*s.SavingUntil)
}

// ClaimSave reserves the session for one save until now+SaveLease. It fails
// with domain.ErrSessionConflict while another save holds it. Call it inside
// a store Update so the claim is atomic.
func (s *Session) ClaimSave(now time.Time) error {
	if s.Saving(now) {
		return errors.Wrapf(domain.ErrSessionConflict, "session %s is being saved", s.ID)
	}
	until := now.Add(SaveLease)
	s.SavingUntil = &until
	return nil
}

// ReleaseSave drops the save claim.
func (s *Session) ReleaseSave() {
	s.SavingUntil = nil
}

func encode(s *Session) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "session: encode %s", s.ID)
	}
	return b, nil
}

func decode(b []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrap(err, "session: decode")
	}
	return &s, nil
}
