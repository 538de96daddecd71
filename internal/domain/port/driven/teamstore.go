package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// TeamStore defines the driven port for team persistence.
type TeamStore interface {
	// Create inserts a new team and returns it with the assigned ID.
	Create(ctx context.Context, team model.Team) (*model.Team, error)

	// GetByID returns the team with the given ID, or (nil, nil) if absent.
	GetByID(ctx context.Context, id int64) (*model.Team, error)

	// Update persists all mutable fields of the team identified by team.ID.
	Update(ctx context.Context, team model.Team) error
}
