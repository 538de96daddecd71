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

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the SessionStore port interface.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo backed by the given DB.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session.
func (r *SessionRepo) Create(ctx context.Context, session model.Session) error {
	const query = `INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		session.Token, session.UserID, session.ExpiresAt.UTC(), createdAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get retrieves a session by token. Returns nil, nil if the session does not exist.
func (r *SessionRepo) Get(ctx context.Context, token string) (*model.Session, error) {
	const query = `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`

	var session model.Session
	var expiresAt, createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, token).Scan(
		&session.Token, &session.UserID, &expiresAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &session, nil
}

// Delete removes the session with the given token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry and returns the number removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < ?`

	result, err := r.db.Writer.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return rows, nil
}
