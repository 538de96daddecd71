package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// CardStore defines the driven port for tracked-card persistence. Tracked
// cards are written once at creation and read by the accountability worker;
// their recorded board/list snapshot is never mutated.
type CardStore interface {
	// Add records a card created in Trello and returns it with the assigned ID.
	Add(ctx context.Context, card model.TrackedCard) (*model.TrackedCard, error)

	// ListByUser returns all tracked cards owned by the given user in
	// creation order.
	ListByUser(ctx context.Context, userID int64) ([]model.TrackedCard, error)

	// Delete removes a tracked card by its Trello card identifier.
	Delete(ctx context.Context, cardID string) error
}
