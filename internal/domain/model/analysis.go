package model

// Analysis is the structured breakdown of a meeting transcript returned by
// the AI analyzer.
type Analysis struct {
	Summary     string       `json:"summary"`
	Decisions   []string     `json:"decisions"`
	ActionItems []ActionItem `json:"action_items"`
}

// ActionItem is a single task extracted from a transcript. DueDate is a
// free-form string; the analyzer uses "Not specified" when the transcript
// names no date.
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
}
