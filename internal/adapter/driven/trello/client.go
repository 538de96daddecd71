// Package trello implements the TrelloClient port against the Trello REST API.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

const defaultBaseURL = "https://api.trello.com/1"

// ErrMissingAPIKey is returned by the factory when the application-level
// Trello API key/secret pair is not configured.
var ErrMissingAPIKey = errors.New("trello api key/secret not configured")

// Compile-time interface satisfaction checks.
var (
	_ driven.TrelloClientFactory = (*Factory)(nil)
	_ driven.TrelloClient        = (*Client)(nil)
)

// Factory builds per-token Trello clients sharing one caching HTTP transport.
// Trello returns ETags on reads, so repeated polling of unchanged cards is
// served from cache.
type Factory struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

// NewFactory creates a Factory. apiKey and apiSecret may be empty; NewClient
// then fails per call, which the worker treats as a per-credential
// configuration error.
func NewFactory(apiKey, apiSecret string) *Factory {
	return &Factory{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
		},
	}
}

// NewFactoryWithHTTPClient creates a Factory with a custom http.Client and
// base URL. This constructor is intended for testing, allowing injection of
// an httptest server.
func NewFactoryWithHTTPClient(apiKey, apiSecret string, httpClient *http.Client, baseURL string) *Factory {
	return &Factory{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// NewClient returns a client scoped to the given user token.
func (f *Factory) NewClient(token string) (driven.TrelloClient, error) {
	if f.apiKey == "" || f.apiSecret == "" {
		return nil, ErrMissingAPIKey
	}

	return &Client{
		apiKey:     f.apiKey,
		token:      token,
		baseURL:    f.baseURL,
		httpClient: f.httpClient,
	}, nil
}

// Client implements the driven.TrelloClient port for one user token.
type Client struct {
	apiKey     string
	token      string
	baseURL    string
	httpClient *http.Client
}

// GetMember returns the account the token belongs to.
func (c *Client) GetMember(ctx context.Context) (*model.TrelloMember, error) {
	var member struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		FullName string `json:"fullName"`
	}
	if err := c.get(ctx, "/members/me", url.Values{"fields": {"username,fullName"}}, &member); err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}

	return &model.TrelloMember{ID: member.ID, Username: member.Username, FullName: member.FullName}, nil
}

// ListBoards returns the boards visible to the connected account.
func (c *Client) ListBoards(ctx context.Context) ([]model.TrelloBoard, error) {
	var raw []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/members/me/boards", url.Values{"fields": {"name"}}, &raw); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	boards := make([]model.TrelloBoard, 0, len(raw))
	for _, b := range raw {
		boards = append(boards, model.TrelloBoard{ID: b.ID, Name: b.Name})
	}
	return boards, nil
}

// ListLists returns the lists of the given board.
func (c *Client) ListLists(ctx context.Context, boardID string) ([]model.TrelloList, error) {
	var raw []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/boards/%s/lists", url.PathEscape(boardID))
	if err := c.get(ctx, path, url.Values{"fields": {"name"}}, &raw); err != nil {
		return nil, fmt.Errorf("list lists for board %s: %w", boardID, err)
	}

	lists := make([]model.TrelloList, 0, len(raw))
	for _, l := range raw {
		lists = append(lists, model.TrelloList{ID: l.ID, Name: l.Name})
	}
	return lists, nil
}

// GetCard returns the current remote state of a card.
func (c *Client) GetCard(ctx context.Context, cardID string) (*model.RemoteCard, error) {
	var card struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		ListID  string `json:"idList"`
		BoardID string `json:"idBoard"`
		Closed  bool   `json:"closed"`
	}
	path := fmt.Sprintf("/cards/%s", url.PathEscape(cardID))
	if err := c.get(ctx, path, url.Values{"fields": {"name,idList,idBoard,closed"}}, &card); err != nil {
		return nil, fmt.Errorf("get card %s: %w", cardID, err)
	}

	return &model.RemoteCard{
		ID:      card.ID,
		Name:    card.Name,
		ListID:  card.ListID,
		BoardID: card.BoardID,
		Closed:  card.Closed,
	}, nil
}

// GetList returns a single list by its identifier.
func (c *Client) GetList(ctx context.Context, listID string) (*model.TrelloList, error) {
	var list struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/lists/%s", url.PathEscape(listID))
	if err := c.get(ctx, path, url.Values{"fields": {"name"}}, &list); err != nil {
		return nil, fmt.Errorf("get list %s: %w", listID, err)
	}

	return &model.TrelloList{ID: list.ID, Name: list.Name}, nil
}

// CreateCard creates a card at the bottom of the given list.
func (c *Client) CreateCard(ctx context.Context, listID, name, description string) (*model.RemoteCard, error) {
	params := url.Values{
		"idList": {listID},
		"name":   {name},
		"desc":   {description},
		"pos":    {"bottom"},
	}

	var card struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		ListID  string `json:"idList"`
		BoardID string `json:"idBoard"`
	}
	if err := c.do(ctx, http.MethodPost, "/cards", params, &card); err != nil {
		return nil, fmt.Errorf("create card in list %s: %w", listID, err)
	}

	return &model.RemoteCard{ID: card.ID, Name: card.Name, ListID: card.ListID, BoardID: card.BoardID}, nil
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, out)
}

// do issues an authenticated request. Trello authenticates via key/token
// query parameters, not headers.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	params.Set("token", c.token)

	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("trello %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
