package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/meetinghub/internal/application"
	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// --- Fakes ---

type fakeAnalyzer struct {
	analysis *model.Analysis
	err      error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string) (*model.Analysis, error) {
	return f.analysis, f.err
}

type fakeTeamStore struct {
	teams  map[int64]model.Team
	nextID int64
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: map[int64]model.Team{}, nextID: 1}
}

func (f *fakeTeamStore) Create(_ context.Context, team model.Team) (*model.Team, error) {
	team.ID = f.nextID
	f.nextID++
	f.teams[team.ID] = team
	return &team, nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id int64) (*model.Team, error) {
	if t, ok := f.teams[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (f *fakeTeamStore) Update(_ context.Context, team model.Team) error {
	f.teams[team.ID] = team
	return nil
}

type slackPost struct {
	WebhookURL string
	Analysis   model.Analysis
}

type fakeSlackNotifier struct {
	posts []slackPost
	err   error
}

func (f *fakeSlackNotifier) PostSummary(_ context.Context, webhookURL string, analysis model.Analysis) error {
	if f.err != nil {
		return f.err
	}
	f.posts = append(f.posts, slackPost{WebhookURL: webhookURL, Analysis: analysis})
	return nil
}

// creatingTrelloClient records created cards and assigns sequential IDs.
type creatingTrelloClient struct {
	created   []string // card names in creation order
	failTasks map[string]bool
}

func (c *creatingTrelloClient) GetMember(_ context.Context) (*model.TrelloMember, error) {
	return &model.TrelloMember{Username: "tester"}, nil
}

func (c *creatingTrelloClient) ListBoards(_ context.Context) ([]model.TrelloBoard, error) {
	return nil, nil
}

func (c *creatingTrelloClient) ListLists(_ context.Context, _ string) ([]model.TrelloList, error) {
	return nil, nil
}

func (c *creatingTrelloClient) GetCard(_ context.Context, _ string) (*model.RemoteCard, error) {
	return nil, errors.New("not implemented")
}

func (c *creatingTrelloClient) GetList(_ context.Context, _ string) (*model.TrelloList, error) {
	return nil, errors.New("not implemented")
}

func (c *creatingTrelloClient) CreateCard(_ context.Context, listID, name, _ string) (*model.RemoteCard, error) {
	if c.failTasks[name] {
		return nil, errors.New("trello rejected the card")
	}
	c.created = append(c.created, name)
	return &model.RemoteCard{ID: fmt.Sprintf("card-%d", len(c.created)), Name: name, ListID: listID}, nil
}

type createdIssue struct {
	ProjectKey string
	IssueType  string
	Summary    string
}

type fakeJiraClient struct {
	issues    []createdIssue
	failTasks map[string]bool
}

func (f *fakeJiraClient) CheckAuth(_ context.Context) error { return nil }

func (f *fakeJiraClient) ListProjects(_ context.Context) ([]model.JiraProject, error) {
	return []model.JiraProject{{Key: "PROJ", Name: "Project"}}, nil
}

func (f *fakeJiraClient) ListIssueTypes(_ context.Context, _ string) ([]model.JiraIssueType, error) {
	return []model.JiraIssueType{{ID: "1", Name: "Task"}}, nil
}

func (f *fakeJiraClient) CreateIssue(_ context.Context, projectKey, issueType, summary, _ string) (string, error) {
	if f.failTasks[summary] {
		return "", errors.New("jira rejected the issue")
	}
	f.issues = append(f.issues, createdIssue{ProjectKey: projectKey, IssueType: issueType, Summary: summary})
	return fmt.Sprintf("%s-%d", projectKey, len(f.issues)), nil
}

type fakeJiraFactory struct {
	client driven.JiraClient
}

func (f *fakeJiraFactory) NewClient(_ model.JiraCredential) driven.JiraClient {
	return f.client
}

// --- Harness ---

type analyzeHarness struct {
	svc          *application.AnalyzeService
	analyzer     *fakeAnalyzer
	mailer       *fakeMailer
	slack        *fakeSlackNotifier
	trelloCreds  *mockTrelloCredStore
	jiraClient   *fakeJiraClient
	cards        *mockCardStore
	teams        *fakeTeamStore
	users        *fakeUserStore
	trelloClient *creatingTrelloClient
}

type fakeJiraCredStore struct {
	creds map[int64]model.JiraCredential
}

func (f *fakeJiraCredStore) Upsert(_ context.Context, cred model.JiraCredential) error {
	if f.creds == nil {
		f.creds = map[int64]model.JiraCredential{}
	}
	f.creds[cred.UserID] = cred
	return nil
}

func (f *fakeJiraCredStore) GetByUser(_ context.Context, userID int64) (*model.JiraCredential, error) {
	if c, ok := f.creds[userID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeJiraCredStore) Delete(_ context.Context, userID int64) error {
	delete(f.creds, userID)
	return nil
}

func sampleAnalysis() *model.Analysis {
	return &model.Analysis{
		Summary:   "The team agreed on the Q3 roadmap.",
		Decisions: []string{"Ship the beta in July"},
		ActionItems: []model.ActionItem{
			{Task: "Draft release notes", Assignee: "Alice", DueDate: "2026-07-01"},
			{Task: "Set up staging", Assignee: "Bob", DueDate: "Not specified"},
		},
	}
}

func newAnalyzeHarness() *analyzeHarness {
	h := &analyzeHarness{
		analyzer:     &fakeAnalyzer{analysis: sampleAnalysis()},
		mailer:       &fakeMailer{},
		slack:        &fakeSlackNotifier{},
		trelloCreds:  &mockTrelloCredStore{},
		jiraClient:   &fakeJiraClient{},
		cards:        &mockCardStore{cards: map[int64][]model.TrackedCard{}},
		teams:        newFakeTeamStore(),
		users:        newFakeUserStore(),
		trelloClient: &creatingTrelloClient{},
	}
	h.svc = application.NewAnalyzeService(
		h.analyzer,
		h.mailer,
		h.slack,
		h.trelloCreds,
		&fakeJiraCredStore{creds: map[int64]model.JiraCredential{1: {UserID: 1, BaseURL: "https://x.atlassian.net"}}},
		h.cards,
		h.teams,
		h.users,
		&mockTrelloFactory{client: h.trelloClient},
		&fakeJiraFactory{client: h.jiraClient},
	)
	return h
}

// --- Tests ---

func TestAnalyzeEmptyTranscript(t *testing.T) {
	h := newAnalyzeHarness()

	_, err := h.svc.Run(context.Background(), model.User{ID: 1}, "   ", application.AutomationRequest{})
	assert.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestAnalyzeFailureSurfacesAsMessage(t *testing.T) {
	h := newAnalyzeHarness()
	h.analyzer.err = errors.New("model overloaded")

	_, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{})
	assert.ErrorIs(t, err, application.ErrAnalysisFailed)
}

func TestAnalyzeWithoutAutomations(t *testing.T) {
	h := newAnalyzeHarness()

	result, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{})
	require.NoError(t, err)
	assert.Equal(t, *sampleAnalysis(), result.Analysis)
	assert.Empty(t, result.Messages)
}

func TestAnalyzeEmailAutomation(t *testing.T) {
	h := newAnalyzeHarness()

	teamID := int64(1)
	h.teams.teams[teamID] = model.Team{ID: teamID, Name: "Core"}
	alice, _ := h.users.Create(context.Background(), model.User{Username: "alice", Email: "alice@example.com", TeamID: &teamID})
	_, _ = h.users.Create(context.Background(), model.User{Username: "bob", Email: "bob@example.com", TeamID: &teamID})

	result, err := h.svc.Run(context.Background(), *alice, "transcript", application.AutomationRequest{EmailSummary: true})
	require.NoError(t, err)

	assert.Equal(t, 1, h.mailer.summaries)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "2 team member(s)")
}

func TestAnalyzeEmailAutomationWithoutTeam(t *testing.T) {
	h := newAnalyzeHarness()

	result, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{EmailSummary: true})
	require.NoError(t, err)

	assert.Zero(t, h.mailer.summaries)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "not in a team")
}

func TestAnalyzeTrelloAutomationTracksCards(t *testing.T) {
	h := newAnalyzeHarness()
	h.trelloCreds.creds = []model.TrelloCredential{{UserID: 1, Token: "tok"}}

	result, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{
		TrelloBoardID: "board1",
		TrelloListID:  "list1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Draft release notes", "Set up staging"}, h.trelloClient.created)
	require.Len(t, h.cards.adds, 2)
	first := h.cards.adds[0]
	assert.Equal(t, "card-1", first.CardID)
	assert.Equal(t, int64(1), first.UserID)
	assert.Equal(t, "board1", first.BoardID)
	assert.Equal(t, "list1", first.ListID)
	assert.Equal(t, "Alice", first.Assignee)
	assert.Equal(t, "2026-07-01", first.DueDate)

	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "created 2 card(s)")
}

func TestAnalyzeTrelloAutomationPartialFailure(t *testing.T) {
	h := newAnalyzeHarness()
	h.trelloCreds.creds = []model.TrelloCredential{{UserID: 1, Token: "tok"}}
	h.trelloClient.failTasks = map[string]bool{"Draft release notes": true}

	result, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{
		TrelloBoardID: "board1",
		TrelloListID:  "list1",
	})
	require.NoError(t, err)

	assert.Len(t, h.cards.adds, 1)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "created 1 card(s)")
	assert.Contains(t, result.Messages[0], "1 failed")
	assert.Contains(t, result.Messages[0], "Draft release notes")
}

func TestAnalyzeTrelloAutomationNotConnected(t *testing.T) {
	h := newAnalyzeHarness()

	result, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{
		TrelloBoardID: "board1",
		TrelloListID:  "list1",
	})
	require.NoError(t, err)

	assert.Empty(t, h.cards.adds)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "not connected")
}

func TestAnalyzeJiraAutomation(t *testing.T) {
	h := newAnalyzeHarness()

	result, err := h.svc.Run(context.Background(), model.User{ID: 1}, "transcript", application.AutomationRequest{
		JiraProjectKey: "PROJ",
		JiraIssueType:  "Task",
	})
	require.NoError(t, err)

	require.Len(t, h.jiraClient.issues, 2)
	assert.Equal(t, "PROJ", h.jiraClient.issues[0].ProjectKey)
	assert.Equal(t, "Task", h.jiraClient.issues[0].IssueType)
	assert.Equal(t, "Draft release notes", h.jiraClient.issues[0].Summary)

	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "created 2 issue(s)")
}

func TestAnalyzeSlackAutomation(t *testing.T) {
	h := newAnalyzeHarness()

	teamID := int64(1)
	h.teams.teams[teamID] = model.Team{ID: teamID, SlackWebhookURL: "https://hooks.slack.com/services/T/B/X"}
	user := model.User{ID: 1, TeamID: &teamID}

	result, err := h.svc.Run(context.Background(), user, "transcript", application.AutomationRequest{SlackSummary: true})
	require.NoError(t, err)

	require.Len(t, h.slack.posts, 1)
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", h.slack.posts[0].WebhookURL)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "posted to Slack")
}

func TestAnalyzeSlackAutomationWithoutWebhook(t *testing.T) {
	h := newAnalyzeHarness()

	teamID := int64(1)
	h.teams.teams[teamID] = model.Team{ID: teamID}
	user := model.User{ID: 1, TeamID: &teamID}

	result, err := h.svc.Run(context.Background(), user, "transcript", application.AutomationRequest{SlackSummary: true})
	require.NoError(t, err)

	assert.Empty(t, h.slack.posts)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "webhook not configured")
}

func TestAnalyzeAllAutomationsReportInOrder(t *testing.T) {
	h := newAnalyzeHarness()
	h.trelloCreds.creds = []model.TrelloCredential{{UserID: 1, Token: "tok"}}

	teamID := int64(1)
	h.teams.teams[teamID] = model.Team{ID: teamID, SlackWebhookURL: "https://hooks.slack.com/services/T/B/X"}
	user, _ := h.users.Create(context.Background(), model.User{Username: "alice", Email: "alice@example.com", TeamID: &teamID})

	result, err := h.svc.Run(context.Background(), *user, "transcript", application.AutomationRequest{
		EmailSummary:   true,
		SlackSummary:   true,
		TrelloBoardID:  "b",
		TrelloListID:   "l",
		JiraProjectKey: "PROJ",
		JiraIssueType:  "Task",
	})
	require.NoError(t, err)

	// Email, Trello, Jira, Slack.
	require.Len(t, result.Messages, 4)
	assert.Contains(t, result.Messages[0], "emailed")
	assert.Contains(t, result.Messages[1], "Trello")
	assert.Contains(t, result.Messages[2], "Jira")
	assert.Contains(t, result.Messages[3], "Slack")
}
