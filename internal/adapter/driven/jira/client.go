// Package jira implements the JiraClient port against the Jira Cloud REST API v2.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.JiraClientFactory = (*Factory)(nil)
	_ driven.JiraClient        = (*Client)(nil)
)

// Factory builds per-credential Jira clients sharing one HTTP client.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a Factory using the default HTTP client.
func NewFactory() *Factory {
	return &Factory{httpClient: &http.Client{}}
}

// NewFactoryWithHTTPClient creates a Factory with a custom http.Client.
// Intended for testing against an httptest server.
func NewFactoryWithHTTPClient(httpClient *http.Client) *Factory {
	return &Factory{httpClient: httpClient}
}

// NewClient returns a client scoped to the given stored credential.
func (f *Factory) NewClient(cred model.JiraCredential) driven.JiraClient {
	return &Client{
		baseURL:    strings.TrimRight(cred.BaseURL, "/"),
		email:      cred.Email,
		apiToken:   cred.APIToken,
		httpClient: f.httpClient,
	}
}

// Client implements the driven.JiraClient port for one credential using
// basic auth (email + API token), the Jira Cloud authentication scheme.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

// CheckAuth verifies the credential by fetching the authenticated user.
func (c *Client) CheckAuth(ctx context.Context) error {
	if err := c.get(ctx, "/rest/api/2/myself", nil); err != nil {
		return fmt.Errorf("check auth: %w", err)
	}
	return nil
}

// ListProjects returns the projects visible to the connected account.
func (c *Client) ListProjects(ctx context.Context) ([]model.JiraProject, error) {
	var raw []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/rest/api/2/project", &raw); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]model.JiraProject, 0, len(raw))
	for _, p := range raw {
		projects = append(projects, model.JiraProject{Key: p.Key, Name: p.Name})
	}
	return projects, nil
}

// ListIssueTypes returns the issue types available in the given project.
func (c *Client) ListIssueTypes(ctx context.Context, projectKey string) ([]model.JiraIssueType, error) {
	var raw struct {
		IssueTypes []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Subtask bool   `json:"subtask"`
		} `json:"issueTypes"`
	}
	path := "/rest/api/2/project/" + url.PathEscape(projectKey)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("list issue types for %s: %w", projectKey, err)
	}

	types := make([]model.JiraIssueType, 0, len(raw.IssueTypes))
	for _, it := range raw.IssueTypes {
		types = append(types, model.JiraIssueType{ID: it.ID, Name: it.Name, Subtask: it.Subtask})
	}
	return types, nil
}

// CreateIssue creates an issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, projectKey, issueType, summary, description string) (string, error) {
	payload := map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": projectKey},
			"summary":     summary,
			"description": description,
			"issuetype":   map[string]string{"name": issueType},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode issue payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/2/issue", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("create issue: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return created.Key, nil
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("jira GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
