package contracts

import (
	"context"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
)

// SessionStore keeps editing sessions between requests.
type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error

	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Update runs fn on the current session and stores the result atomically.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error)

	Delete(ctx context.Context, id string) error
}
