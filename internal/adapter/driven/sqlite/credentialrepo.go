package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.TrelloCredentialStore = (*TrelloCredentialRepo)(nil)
	_ driven.JiraCredentialStore   = (*JiraCredentialRepo)(nil)
)

// TrelloCredentialRepo is the SQLite implementation of the
// TrelloCredentialStore port interface. Tokens are encrypted with
// AES-256-GCM before write and decrypted after read.
type TrelloCredentialRepo struct {
	db     *DB
	cipher tokenCipher
}

// NewTrelloCredentialRepo creates a new TrelloCredentialRepo. key must be 32
// bytes for AES-256-GCM, or nil to disable credential storage (operations
// will return driven.ErrEncryptionKeyNotSet).
func NewTrelloCredentialRepo(db *DB, key []byte) *TrelloCredentialRepo {
	return &TrelloCredentialRepo{db: db, cipher: tokenCipher{key: key}}
}

// Upsert stores or replaces the credential for cred.UserID.
func (r *TrelloCredentialRepo) Upsert(ctx context.Context, cred model.TrelloCredential) error {
	encrypted, err := r.cipher.encrypt(cred.Token)
	if err != nil {
		return err
	}

	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `INSERT INTO trello_credentials (user_id, token, trello_username, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, trello_username = excluded.trello_username`
	_, err = r.db.Writer.ExecContext(ctx, query, cred.UserID, encrypted, cred.TrelloUsername, createdAt)
	if err != nil {
		return fmt.Errorf("upsert trello credential for user %d: %w", cred.UserID, err)
	}
	return nil
}

// GetByUser retrieves the user's credential. Returns nil, nil if absent.
func (r *TrelloCredentialRepo) GetByUser(ctx context.Context, userID int64) (*model.TrelloCredential, error) {
	const query = `SELECT id, user_id, token, trello_username, created_at
		FROM trello_credentials WHERE user_id = ?`

	cred, err := r.scanCredential(r.db.Reader.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trello credential for user %d: %w", userID, err)
	}
	return cred, nil
}

// ListAll returns every stored credential ordered by user ID. This is the
// accountability worker's entry point for a reconciliation pass.
func (r *TrelloCredentialRepo) ListAll(ctx context.Context) ([]model.TrelloCredential, error) {
	const query = `SELECT id, user_id, token, trello_username, created_at
		FROM trello_credentials ORDER BY user_id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trello credentials: %w", err)
	}
	defer rows.Close()

	var creds []model.TrelloCredential
	for rows.Next() {
		cred, err := r.scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trello credential: %w", err)
		}
		creds = append(creds, *cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trello credentials: %w", err)
	}

	return creds, nil
}

// Delete removes the user's credential.
func (r *TrelloCredentialRepo) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM trello_credentials WHERE user_id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete trello credential for user %d: %w", userID, err)
	}
	return nil
}

func (r *TrelloCredentialRepo) scanCredential(s scanner) (*model.TrelloCredential, error) {
	var cred model.TrelloCredential
	var encrypted, createdAt string

	if err := s.Scan(&cred.ID, &cred.UserID, &encrypted, &cred.TrelloUsername, &createdAt); err != nil {
		return nil, err
	}

	token, err := r.cipher.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt token: %w", err)
	}
	cred.Token = token

	if cred.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &cred, nil
}

// JiraCredentialRepo is the SQLite implementation of the JiraCredentialStore
// port interface. API tokens are encrypted at rest like Trello tokens.
type JiraCredentialRepo struct {
	db     *DB
	cipher tokenCipher
}

// NewJiraCredentialRepo creates a new JiraCredentialRepo. See
// NewTrelloCredentialRepo for key semantics.
func NewJiraCredentialRepo(db *DB, key []byte) *JiraCredentialRepo {
	return &JiraCredentialRepo{db: db, cipher: tokenCipher{key: key}}
}

// Upsert stores or replaces the credential for cred.UserID.
func (r *JiraCredentialRepo) Upsert(ctx context.Context, cred model.JiraCredential) error {
	encrypted, err := r.cipher.encrypt(cred.APIToken)
	if err != nil {
		return err
	}

	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `INSERT INTO jira_credentials (user_id, base_url, email, api_token, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			base_url = excluded.base_url, email = excluded.email, api_token = excluded.api_token`
	_, err = r.db.Writer.ExecContext(ctx, query, cred.UserID, cred.BaseURL, cred.Email, encrypted, createdAt)
	if err != nil {
		return fmt.Errorf("upsert jira credential for user %d: %w", cred.UserID, err)
	}
	return nil
}

// GetByUser retrieves the user's credential. Returns nil, nil if absent.
func (r *JiraCredentialRepo) GetByUser(ctx context.Context, userID int64) (*model.JiraCredential, error) {
	const query = `SELECT id, user_id, base_url, email, api_token, created_at
		FROM jira_credentials WHERE user_id = ?`

	var cred model.JiraCredential
	var encrypted, createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, userID).Scan(
		&cred.ID, &cred.UserID, &cred.BaseURL, &cred.Email, &encrypted, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get jira credential for user %d: %w", userID, err)
	}

	if cred.APIToken, err = r.cipher.decrypt(encrypted); err != nil {
		return nil, fmt.Errorf("decrypt api token: %w", err)
	}
	if cred.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &cred, nil
}

// Delete removes the user's credential.
func (r *JiraCredentialRepo) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM jira_credentials WHERE user_id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete jira credential for user %d: %w", userID, err)
	}
	return nil
}
