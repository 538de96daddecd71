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
var _ driven.TeamStore = (*TeamRepo)(nil)

// TeamRepo is the SQLite implementation of the TeamStore port interface.
type TeamRepo struct {
	db *DB
}

// NewTeamRepo creates a new TeamRepo backed by the given DB.
func NewTeamRepo(db *DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// Create inserts a new team and returns it with the assigned ID.
func (r *TeamRepo) Create(ctx context.Context, team model.Team) (*model.Team, error) {
	const query = `INSERT INTO teams (name, owner_id, slack_webhook_url, created_at) VALUES (?, ?, ?, ?)`

	createdAt := team.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query, team.Name, team.OwnerID, team.SlackWebhookURL, createdAt)
	if err != nil {
		return nil, fmt.Errorf("create team %q: %w", team.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create team %q: last insert id: %w", team.Name, err)
	}

	team.ID = id
	team.CreatedAt = createdAt
	return &team, nil
}

// GetByID retrieves a team by ID. Returns nil, nil if the team does not exist.
func (r *TeamRepo) GetByID(ctx context.Context, id int64) (*model.Team, error) {
	const query = `SELECT id, name, owner_id, slack_webhook_url, created_at FROM teams WHERE id = ?`

	var team model.Team
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.OwnerID, &team.SlackWebhookURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get team %d: %w", id, err)
	}

	if team.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &team, nil
}

// Update persists all mutable fields of the team identified by team.ID.
func (r *TeamRepo) Update(ctx context.Context, team model.Team) error {
	const query = `UPDATE teams SET name = ?, owner_id = ?, slack_webhook_url = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, team.Name, team.OwnerID, team.SlackWebhookURL, team.ID)
	if err != nil {
		return fmt.Errorf("update team %d: %w", team.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update team %d: %w", team.ID, driven.ErrNotFound)
	}

	return nil
}
