package ports

import (
	"context"

	"github.com/formroute/formroute/pkg/domain"
)

// SessionStore persists per-session navigation state between requests.
// Exactly one session owns a state record at a time; cross-session
// coordination is the responsibility of the session manager.
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.Session) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of all live sessions.
	List(ctx context.Context) ([]string, error)
}
