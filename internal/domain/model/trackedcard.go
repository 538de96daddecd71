package model

import "time"

// TrackedCard records one Trello card this system created on behalf of a
// user. BoardID and ListID are the card's location at creation time; they
// are a read-only snapshot used by the accountability worker for drift
// detection and are never updated afterwards.
type TrackedCard struct {
	ID          int64
	CardID      string // Trello card identifier.
	UserID      int64
	BoardID     string
	ListID      string
	Description string
	Assignee    string
	DueDate     string // Free-form due-date string from the analysis; "Not specified" when absent.
	CreatedAt   time.Time
}
