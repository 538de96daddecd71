package mail

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// sanitizer strips anything outside user-generated-content HTML from
// rendered markdown before it goes into a mail body.
var sanitizer = bluemonday.UGCPolicy()

// renderMarkdown converts markdown to sanitized HTML. Gemini summaries
// occasionally contain markdown emphasis and lists even though the prompt
// asks for plain text. On render failure the escaped source is returned.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return html.EscapeString(md)
	}
	return sanitizer.Sanitize(buf.String())
}

// SummaryBody renders the meeting analysis as an HTML mail body. The
// summary is treated as markdown; decisions and action items are rendered
// as lists.
func SummaryBody(analysis model.Analysis) string {
	var b strings.Builder

	b.WriteString("<h2>Summary</h2>")
	b.WriteString(renderMarkdown(analysis.Summary))

	if len(analysis.Decisions) > 0 {
		b.WriteString("<h2>Decisions</h2><ul>")
		for _, d := range analysis.Decisions {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(d))
		}
		b.WriteString("</ul>")
	}

	if len(analysis.ActionItems) > 0 {
		b.WriteString("<h2>Action Items</h2><ul>")
		for _, item := range analysis.ActionItems {
			fmt.Fprintf(&b, "<li><b>Task:</b> %s | <b>Assignee:</b> %s | <b>Due:</b> %s</li>",
				html.EscapeString(item.Task), html.EscapeString(item.Assignee), html.EscapeString(item.DueDate))
		}
		b.WriteString("</ul>")
	}

	return wrap(b.String())
}

func wrap(content string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: #1a1a1a; max-width: 600px; margin: 0 auto; padding: 24px;">`)
	b.WriteString(content)
	b.WriteString(`<p style="color: #888; font-size: 12px; margin-top: 32px;">Sent by MeetingHub</p></body></html>`)
	return b.String()
}

func welcomeBody(username string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Welcome, %s!</h1>", html.EscapeString(username))
	b.WriteString("<p>Your MeetingHub account is verified and ready.</p>")
	b.WriteString("<p>Paste a meeting transcript to get a summary, decisions, and action items, then push them to Trello, Jira, Slack, or email.</p>")
	return wrap(b.String())
}

func otpBody(username, instructions, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(username))
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(instructions))
	fmt.Fprintf(&b, `<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>`, html.EscapeString(code))
	b.WriteString("<p>If you didn't request this, you can ignore this email.</p>")
	return wrap(b.String())
}

func integrationBody(username, integration string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(username))
	fmt.Fprintf(&b, "<p>Your %s integration is now connected to MeetingHub.</p>", html.EscapeString(integration))
	return wrap(b.String())
}
