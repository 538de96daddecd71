package model

// Remote snapshots of external-system objects. These are transient API
// responses, never persisted.

// TrelloMember is the authenticated Trello account a token belongs to.
type TrelloMember struct {
	ID       string
	Username string
	FullName string
}

// TrelloBoard is a board visible to the connected Trello account.
type TrelloBoard struct {
	ID   string
	Name string
}

// TrelloList is a list (column) on a Trello board.
type TrelloList struct {
	ID   string
	Name string
}

// RemoteCard is the current state of a Trello card as reported by the API.
type RemoteCard struct {
	ID      string
	Name    string
	ListID  string
	BoardID string
	Closed  bool
}

// JiraProject is a project visible to the connected Jira account.
type JiraProject struct {
	Key  string
	Name string
}

// JiraIssueType is an issue type available within a Jira project.
type JiraIssueType struct {
	ID      string
	Name    string
	Subtask bool
}
