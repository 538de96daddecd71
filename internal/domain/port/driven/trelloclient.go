package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// TrelloClient defines the driven port for the Trello REST API, scoped to a
// single user token. Clients are short-lived: the accountability worker and
// the analyze flow build one per credential, use it, and drop it.
type TrelloClient interface {
	// GetMember returns the account the token belongs to. Used to validate
	// a token at connect time.
	GetMember(ctx context.Context) (*model.TrelloMember, error)

	// ListBoards returns the boards visible to the connected account.
	ListBoards(ctx context.Context) ([]model.TrelloBoard, error)

	// ListLists returns the lists of the given board.
	ListLists(ctx context.Context, boardID string) ([]model.TrelloList, error)

	// GetCard returns the current remote state of a card by its identifier.
	GetCard(ctx context.Context, cardID string) (*model.RemoteCard, error)

	// GetList returns a single list by its identifier.
	GetList(ctx context.Context, listID string) (*model.TrelloList, error)

	// CreateCard creates a card at the bottom of the given list and returns
	// its remote state.
	CreateCard(ctx context.Context, listID, name, description string) (*model.RemoteCard, error)
}

// TrelloClientFactory builds per-token Trello clients. NewClient fails when
// the application-level API key/secret pair is not configured; callers treat
// that as a per-credential configuration error, not a fatal one.
type TrelloClientFactory interface {
	NewClient(token string) (TrelloClient, error)
}
