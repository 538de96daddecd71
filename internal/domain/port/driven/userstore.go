package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore defines the driven port for user persistence.
type UserStore interface {
	// Create inserts a new user and returns it with the assigned ID.
	Create(ctx context.Context, user model.User) (*model.User, error)

	// GetByID returns the user with the given ID, or (nil, nil) if absent.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByEmail returns the user with the given email, or (nil, nil) if absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByUsername returns the user with the given username, or (nil, nil) if absent.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Update persists all mutable fields of the user identified by user.ID.
	Update(ctx context.Context, user model.User) error

	// ListByTeam returns all users belonging to the given team.
	ListByTeam(ctx context.Context, teamID int64) ([]model.User, error)
}
