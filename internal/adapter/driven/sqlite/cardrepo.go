package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CardStore = (*CardRepo)(nil)

// ErrCardAlreadyTracked is returned when a Trello card ID is recorded twice.
var ErrCardAlreadyTracked = fmt.Errorf("card already tracked")

// CardRepo is the SQLite implementation of the CardStore port interface.
// Rows are written once when a card is created in Trello; the recorded
// board/list snapshot is never updated afterwards.
type CardRepo struct {
	db *DB
}

// NewCardRepo creates a new CardRepo backed by the given DB.
func NewCardRepo(db *DB) *CardRepo {
	return &CardRepo{db: db}
}

// Add records a card created in Trello and returns it with the assigned ID.
func (r *CardRepo) Add(ctx context.Context, card model.TrackedCard) (*model.TrackedCard, error) {
	const query = `INSERT INTO tracked_cards
		(card_id, user_id, board_id, list_id, description, assignee, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := card.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		card.CardID, card.UserID, card.BoardID, card.ListID,
		card.Description, card.Assignee, card.DueDate, createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("add tracked card %s: %w", card.CardID, ErrCardAlreadyTracked)
		}
		return nil, fmt.Errorf("add tracked card %s: %w", card.CardID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add tracked card %s: last insert id: %w", card.CardID, err)
	}

	card.ID = id
	card.CreatedAt = createdAt
	return &card, nil
}

// ListByUser returns all tracked cards owned by the given user in creation order.
func (r *CardRepo) ListByUser(ctx context.Context, userID int64) ([]model.TrackedCard, error) {
	const query = `SELECT id, card_id, user_id, board_id, list_id, description, assignee, due_date, created_at
		FROM tracked_cards WHERE user_id = ? ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tracked cards for user %d: %w", userID, err)
	}
	defer rows.Close()

	var cards []model.TrackedCard
	for rows.Next() {
		var card model.TrackedCard
		var createdAt string
		err := rows.Scan(&card.ID, &card.CardID, &card.UserID, &card.BoardID, &card.ListID,
			&card.Description, &card.Assignee, &card.DueDate, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan tracked card: %w", err)
		}
		if card.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked cards: %w", err)
	}

	return cards, nil
}

// Delete removes a tracked card by its Trello card identifier.
func (r *CardRepo) Delete(ctx context.Context, cardID string) error {
	const query = `DELETE FROM tracked_cards WHERE card_id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, cardID); err != nil {
		return fmt.Errorf("delete tracked card %s: %w", cardID, err)
	}
	return nil
}
