// Package gemini implements the TranscriptAnalyzer port using the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

const defaultModel = "gemini-2.0-flash-exp"

// ErrMissingAPIKey is returned by NewAnalyzer when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("gemini api key not configured")

// ErrEmptyResponse is returned when the model produces no usable output.
var ErrEmptyResponse = errors.New("empty response from model")

// Compile-time interface satisfaction check.
var _ driven.TranscriptAnalyzer = (*Analyzer)(nil)

// Analyzer implements the driven.TranscriptAnalyzer port against the Gemini
// API. The model is asked for a strict-JSON response; Analyzer tolerates the
// common failure mode of the output being wrapped in a markdown code fence.
type Analyzer struct {
	client *genai.Client
	model  string
}

// NewAnalyzer creates an Analyzer for the given API key.
func NewAnalyzer(ctx context.Context, apiKey string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Analyzer{client: client, model: defaultModel}, nil
}

// Analyze extracts a summary, decisions, and action items from the transcript.
func (a *Analyzer) Analyze(ctx context.Context, transcript string) (*model.Analysis, error) {
	prompt := buildPrompt(transcript)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return analysis, nil
}

// buildPrompt renders the strict-JSON analysis prompt around the transcript.
func buildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString(`Analyze the following meeting transcript. Provide your analysis ONLY in a valid JSON object format. Do not include any text, markdown formatting, or explanations before or after the JSON object.

The JSON object must have these top-level keys: "summary", "decisions", "action_items".
- "summary": (string) A concise, one-paragraph summary.
- "decisions": (list of strings) A list of all concrete decisions made.
- "action_items": (list of objects) A list of tasks. Each object must have: "task" (string), "assignee" (string), and "due_date" (string, use "Not specified" if none).

Transcript:
---
`)
	b.WriteString(transcript)
	b.WriteString(`
---

JSON Analysis:
`)
	return b.String()
}

// parseAnalysis decodes the model output into an Analysis, stripping any
// markdown code fence the model wrapped around the JSON.
func parseAnalysis(raw string) (*model.Analysis, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, ErrEmptyResponse
	}

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis JSON: %w", err)
	}

	if analysis.Decisions == nil {
		analysis.Decisions = []string{}
	}
	if analysis.ActionItems == nil {
		analysis.ActionItems = []model.ActionItem{}
	}
	for i := range analysis.ActionItems {
		if analysis.ActionItems[i].DueDate == "" {
			analysis.ActionItems[i].DueDate = "Not specified"
		}
	}

	return &analysis, nil
}
