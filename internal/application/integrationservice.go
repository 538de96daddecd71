package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

var (
	ErrTrelloNotConnected = errors.New("trello not connected")
	ErrJiraNotConnected   = errors.New("jira not connected")
)

// IntegrationStatus summarizes which external services a user has connected.
type IntegrationStatus struct {
	TrelloConnected bool
	TrelloUsername  string
	JiraConnected   bool
	JiraBaseURL     string
	SlackConnected  bool
}

// IntegrationService manages Trello and Jira credentials and proxies the
// read endpoints (boards, lists, projects, issue types) the UI needs to let
// the user pick automation targets.
type IntegrationService struct {
	trelloCreds   driven.TrelloCredentialStore
	jiraCreds     driven.JiraCredentialStore
	cards         driven.CardStore
	teams         driven.TeamStore
	trelloFactory driven.TrelloClientFactory
	jiraFactory   driven.JiraClientFactory
	mailer        driven.Mailer
}

// NewIntegrationService creates an IntegrationService.
func NewIntegrationService(
	trelloCreds driven.TrelloCredentialStore,
	jiraCreds driven.JiraCredentialStore,
	cards driven.CardStore,
	teams driven.TeamStore,
	trelloFactory driven.TrelloClientFactory,
	jiraFactory driven.JiraClientFactory,
	mailer driven.Mailer,
) *IntegrationService {
	return &IntegrationService{
		trelloCreds:   trelloCreds,
		jiraCreds:     jiraCreds,
		cards:         cards,
		teams:         teams,
		trelloFactory: trelloFactory,
		jiraFactory:   jiraFactory,
		mailer:        mailer,
	}
}

// ConnectTrello validates the pasted authorize token by fetching the member
// it belongs to, then stores it. One credential per user; reconnecting
// replaces the token.
func (s *IntegrationService) ConnectTrello(ctx context.Context, user model.User, token string) (*model.TrelloCredential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token required", ErrInvalidInput)
	}

	client, err := s.trelloFactory.NewClient(token)
	if err != nil {
		return nil, err
	}
	member, err := client.GetMember(ctx)
	if err != nil {
		return nil, fmt.Errorf("validate trello token: %w", err)
	}

	cred := model.TrelloCredential{
		UserID:         user.ID,
		Token:          token,
		TrelloUsername: member.Username,
	}
	if err := s.trelloCreds.Upsert(ctx, cred); err != nil {
		return nil, err
	}

	s.notifyConnected(ctx, user, "Trello")
	slog.Info("trello connected", "user_id", user.ID, "trello_username", member.Username)
	return &cred, nil
}

// DisconnectTrello removes the user's stored Trello token.
func (s *IntegrationService) DisconnectTrello(ctx context.Context, userID int64) error {
	return s.trelloCreds.Delete(ctx, userID)
}

// ListBoards returns the boards visible to the user's connected Trello account.
func (s *IntegrationService) ListBoards(ctx context.Context, userID int64) ([]model.TrelloBoard, error) {
	client, err := s.trelloClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.ListBoards(ctx)
}

// ListLists returns the lists of one of the user's boards.
func (s *IntegrationService) ListLists(ctx context.Context, userID int64, boardID string) ([]model.TrelloList, error) {
	client, err := s.trelloClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.ListLists(ctx, boardID)
}

func (s *IntegrationService) trelloClientFor(ctx context.Context, userID int64) (driven.TrelloClient, error) {
	cred, err := s.trelloCreds.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrTrelloNotConnected
	}
	return s.trelloFactory.NewClient(cred.Token)
}

// ConnectJira validates the site URL, email, and API token via the
// authenticated-user endpoint, then stores them.
func (s *IntegrationService) ConnectJira(ctx context.Context, user model.User, baseURL, email, apiToken string) error {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || email == "" || apiToken == "" {
		return fmt.Errorf("%w: url, email, and api token required", ErrInvalidInput)
	}
	if !strings.HasPrefix(baseURL, "https://") {
		return fmt.Errorf("%w: jira url must use https", ErrInvalidInput)
	}

	cred := model.JiraCredential{
		UserID:   user.ID,
		BaseURL:  baseURL,
		Email:    email,
		APIToken: apiToken,
	}
	client := s.jiraFactory.NewClient(cred)
	if err := client.CheckAuth(ctx); err != nil {
		return fmt.Errorf("validate jira credentials: %w", err)
	}

	if err := s.jiraCreds.Upsert(ctx, cred); err != nil {
		return err
	}

	s.notifyConnected(ctx, user, "Jira")
	slog.Info("jira connected", "user_id", user.ID, "base_url", baseURL)
	return nil
}

// DisconnectJira removes the user's stored Jira credential.
func (s *IntegrationService) DisconnectJira(ctx context.Context, userID int64) error {
	return s.jiraCreds.Delete(ctx, userID)
}

// ListProjects returns the projects visible to the user's Jira account.
func (s *IntegrationService) ListProjects(ctx context.Context, userID int64) ([]model.JiraProject, error) {
	client, err := s.jiraClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.ListProjects(ctx)
}

// ListIssueTypes returns the issue types of one of the user's Jira projects.
func (s *IntegrationService) ListIssueTypes(ctx context.Context, userID int64, projectKey string) ([]model.JiraIssueType, error) {
	client, err := s.jiraClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.ListIssueTypes(ctx, projectKey)
}

func (s *IntegrationService) jiraClientFor(ctx context.Context, userID int64) (driven.JiraClient, error) {
	cred, err := s.jiraCreds.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrJiraNotConnected
	}
	return s.jiraFactory.NewClient(*cred), nil
}

// Status reports which integrations the user has connected.
func (s *IntegrationService) Status(ctx context.Context, user model.User) (*IntegrationStatus, error) {
	status := &IntegrationStatus{}

	trello, err := s.trelloCreds.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if trello != nil {
		status.TrelloConnected = true
		status.TrelloUsername = trello.TrelloUsername
	}

	jira, err := s.jiraCreds.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if jira != nil {
		status.JiraConnected = true
		status.JiraBaseURL = jira.BaseURL
	}

	if user.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *user.TeamID)
		if err != nil {
			return nil, err
		}
		if team != nil && team.HasSlackWebhook() {
			status.SlackConnected = true
		}
	}

	return status, nil
}

// TrackedCards returns the user's tracked Trello cards in creation order.
func (s *IntegrationService) TrackedCards(ctx context.Context, userID int64) ([]model.TrackedCard, error) {
	return s.cards.ListByUser(ctx, userID)
}

// notifyConnected sends the integration-success mail. Best effort.
func (s *IntegrationService) notifyConnected(ctx context.Context, user model.User, integration string) {
	if err := s.mailer.SendIntegrationSuccess(ctx, user.Email, user.Username, integration); err != nil {
		slog.Warn("integration mail not sent", "user_id", user.ID, "integration", integration, "error", err)
	}
}
