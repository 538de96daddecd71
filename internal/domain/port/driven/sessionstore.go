package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// SessionStore defines the driven port for login session persistence.
type SessionStore interface {
	// Create inserts a new session.
	Create(ctx context.Context, session model.Session) error

	// Get returns the session with the given token, or (nil, nil) if absent.
	Get(ctx context.Context, token string) (*model.Session, error)

	// Delete removes the session with the given token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all sessions past their expiry and returns the
	// number removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
