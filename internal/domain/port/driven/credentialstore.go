package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by credential store operations when
// MEETINGHUB_SECRET_KEY has not been configured. Tokens are encrypted at
// rest and cannot be stored or read without the key.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set MEETINGHUB_SECRET_KEY")

// TrelloCredentialStore defines the driven port for Trello token persistence.
// The adapter layer encrypts tokens at rest; this interface operates on
// plaintext values at the domain boundary.
type TrelloCredentialStore interface {
	// Upsert stores or replaces the credential for cred.UserID.
	Upsert(ctx context.Context, cred model.TrelloCredential) error

	// GetByUser returns the user's credential, or (nil, nil) if absent.
	GetByUser(ctx context.Context, userID int64) (*model.TrelloCredential, error)

	// ListAll returns every stored credential. The accountability worker
	// iterates this to drive a reconciliation pass.
	ListAll(ctx context.Context) ([]model.TrelloCredential, error)

	// Delete removes the user's credential. Deleting an absent credential
	// is not an error.
	Delete(ctx context.Context, userID int64) error
}

// JiraCredentialStore defines the driven port for Jira credential persistence.
type JiraCredentialStore interface {
	// Upsert stores or replaces the credential for cred.UserID.
	Upsert(ctx context.Context, cred model.JiraCredential) error

	// GetByUser returns the user's credential, or (nil, nil) if absent.
	GetByUser(ctx context.Context, userID int64) (*model.JiraCredential, error)

	// Delete removes the user's credential. Deleting an absent credential
	// is not an error.
	Delete(ctx context.Context, userID int64) error
}
