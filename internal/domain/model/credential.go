package model

import "time"

// TrelloCredential associates one user with one Trello access token.
// At most one credential exists per user; it is created when the user
// completes the token exchange and deleted when they disconnect.
type TrelloCredential struct {
	ID             int64
	UserID         int64
	Token          string
	TrelloUsername string
	CreatedAt      time.Time
}

// JiraCredential associates one user with one Jira Cloud site and API token.
type JiraCredential struct {
	ID        int64
	UserID    int64
	BaseURL   string
	Email     string
	APIToken  string
	CreatedAt time.Time
}
