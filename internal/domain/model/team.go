package model

import "time"

// Team groups users for shared automations. SlackWebhookURL is empty until a
// member connects the team's Slack integration.
type Team struct {
	ID              int64
	Name            string
	OwnerID         int64
	SlackWebhookURL string
	CreatedAt       time.Time
}

// HasSlackWebhook reports whether the team's Slack integration is connected.
func (t Team) HasSlackWebhook() bool {
	return t.SlackWebhookURL != ""
}
