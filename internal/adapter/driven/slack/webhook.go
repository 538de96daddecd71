// Package slack implements the SlackNotifier port using incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SlackNotifier = (*Notifier)(nil)

// Notifier posts meeting analyses to Slack incoming webhooks using Block Kit.
type Notifier struct {
	httpClient *http.Client
}

// NewNotifier creates a Notifier using the default HTTP client.
func NewNotifier() *Notifier {
	return &Notifier{httpClient: &http.Client{}}
}

// NewNotifierWithHTTPClient creates a Notifier with a custom http.Client.
// Intended for testing against an httptest server.
func NewNotifierWithHTTPClient(httpClient *http.Client) *Notifier {
	return &Notifier{httpClient: httpClient}
}

// block is one Block Kit element in the webhook payload.
type block struct {
	Type string     `json:"type"`
	Text *blockText `json:"text,omitempty"`
}

type blockText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// PostSummary posts the analysis to the given webhook URL. Slack responds
// with a bare "ok" body on success.
func (n *Notifier) PostSummary(ctx context.Context, webhookURL string, analysis model.Analysis) error {
	payload := struct {
		Blocks []block `json:"blocks"`
	}{Blocks: buildBlocks(analysis)}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return nil
}

// buildBlocks renders the analysis as Block Kit blocks: header, summary,
// then decisions and action items when present.
func buildBlocks(analysis model.Analysis) []block {
	summary := analysis.Summary
	if summary == "" {
		summary = "No summary available."
	}

	blocks := []block{
		{Type: "header", Text: &blockText{Type: "plain_text", Text: "📝 Meeting Summary", Emoji: true}},
		{Type: "section", Text: &blockText{Type: "mrkdwn", Text: summary}},
		{Type: "divider"},
	}

	if len(analysis.Decisions) > 0 {
		var b strings.Builder
		b.WriteString("*⚖️ Key Decisions:*")
		for _, d := range analysis.Decisions {
			b.WriteString("\n• ")
			b.WriteString(d)
		}
		blocks = append(blocks,
			block{Type: "section", Text: &blockText{Type: "mrkdwn", Text: b.String()}},
			block{Type: "divider"},
		)
	}

	if len(analysis.ActionItems) > 0 {
		var b strings.Builder
		b.WriteString("*✅ Action Items:*\n")
		for _, item := range analysis.ActionItems {
			fmt.Fprintf(&b, "• *Task:* %s | *Assignee:* %s | *Due:* %s\n", item.Task, item.Assignee, item.DueDate)
		}
		blocks = append(blocks, block{Type: "section", Text: &blockText{Type: "mrkdwn", Text: b.String()}})
	}

	return blocks
}
