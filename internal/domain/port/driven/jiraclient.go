package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// JiraClient defines the driven port for the Jira Cloud REST API, scoped to
// one stored credential.
type JiraClient interface {
	// CheckAuth verifies the credential by fetching the authenticated user.
	CheckAuth(ctx context.Context) error

	// ListProjects returns the projects visible to the connected account.
	ListProjects(ctx context.Context) ([]model.JiraProject, error)

	// ListIssueTypes returns the issue types available in the given project.
	ListIssueTypes(ctx context.Context, projectKey string) ([]model.JiraIssueType, error)

	// CreateIssue creates an issue and returns its key (e.g. "PROJ-42").
	CreateIssue(ctx context.Context, projectKey, issueType, summary, description string) (string, error)
}

// JiraClientFactory builds per-credential Jira clients.
type JiraClientFactory interface {
	NewClient(cred model.JiraCredential) JiraClient
}
