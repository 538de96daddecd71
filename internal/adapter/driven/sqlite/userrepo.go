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
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, team_id, is_verified,
	verification_token, verification_expires, reset_token, reset_expires, created_at`

// Create inserts a new user and returns it with the assigned ID.
func (r *UserRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users
		(username, email, password_hash, team_id, is_verified,
		 verification_token, verification_expires, reset_token, reset_expires, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		nullableID(user.TeamID), user.IsVerified,
		user.VerificationToken, nullableTime(user.VerificationExpires),
		user.ResetToken, nullableTime(user.ResetExpires),
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", user.Username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user %q: last insert id: %w", user.Username, err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	return &user, nil
}

// GetByID retrieves a user by ID. Returns nil, nil if the user does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email. Returns nil, nil if the user does not exist.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username. Returns nil, nil if the user does not exist.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}

// Update persists all mutable fields of the user identified by user.ID.
func (r *UserRepo) Update(ctx context.Context, user model.User) error {
	const query = `UPDATE users SET
		username = ?, email = ?, password_hash = ?, team_id = ?, is_verified = ?,
		verification_token = ?, verification_expires = ?, reset_token = ?, reset_expires = ?
		WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		nullableID(user.TeamID), user.IsVerified,
		user.VerificationToken, nullableTime(user.VerificationExpires),
		user.ResetToken, nullableTime(user.ResetExpires),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, driven.ErrNotFound)
	}

	return nil
}

// ListByTeam returns all users belonging to the given team ordered by username.
func (r *UserRepo) ListByTeam(ctx context.Context, teamID int64) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE team_id = ? ORDER BY username`

	rows, err := r.db.Reader.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("list users for team %d: %w", teamID, err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func scanUser(s scanner) (*model.User, error) {
	var user model.User
	var teamID sql.NullInt64
	var verificationExpires, resetExpires sql.NullString
	var createdAt string

	err := s.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&teamID, &user.IsVerified,
		&user.VerificationToken, &verificationExpires,
		&user.ResetToken, &resetExpires, &createdAt)
	if err != nil {
		return nil, err
	}

	if teamID.Valid {
		user.TeamID = &teamID.Int64
	}

	if user.VerificationExpires, err = parseNullTime(verificationExpires); err != nil {
		return nil, fmt.Errorf("parse verification_expires: %w", err)
	}
	if user.ResetExpires, err = parseNullTime(resetExpires); err != nil {
		return nil, fmt.Errorf("parse reset_expires: %w", err)
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &user, nil
}

// nullableID converts an optional foreign key to its SQL representation.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// nullableTime converts an optional timestamp to its SQL representation.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
