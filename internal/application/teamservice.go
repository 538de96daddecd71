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
	ErrAlreadyInTeam   = errors.New("user already belongs to a team")
	ErrNoTeam          = errors.New("user does not belong to a team")
	ErrTeamNotFound    = errors.New("team not found")
	ErrInvalidWebhook  = errors.New("invalid slack webhook url")
	ErrInviteeNotFound = errors.New("no account with that email")
)

const slackWebhookPrefix = "https://hooks.slack.com/services/"

// TeamService manages teams, membership, and the team Slack webhook.
type TeamService struct {
	teams driven.TeamStore
	users driven.UserStore
}

// NewTeamService creates a TeamService.
func NewTeamService(teams driven.TeamStore, users driven.UserStore) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// Create creates a team owned by the user and makes them its first member.
func (s *TeamService) Create(ctx context.Context, user model.User, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name required", ErrInvalidInput)
	}
	if user.TeamID != nil {
		return nil, ErrAlreadyInTeam
	}

	team, err := s.teams.Create(ctx, model.Team{Name: name, OwnerID: user.ID})
	if err != nil {
		return nil, err
	}

	user.TeamID = &team.ID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("attach owner to team: %w", err)
	}

	slog.Info("team created", "team_id", team.ID, "owner_id", user.ID)
	return team, nil
}

// Invite adds an existing registered user to the inviter's team by email.
// The invitee must not already belong to a team.
func (s *TeamService) Invite(ctx context.Context, inviter model.User, email string) error {
	if inviter.TeamID == nil {
		return ErrNoTeam
	}

	invitee, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if invitee == nil {
		return ErrInviteeNotFound
	}
	if invitee.TeamID != nil {
		return ErrAlreadyInTeam
	}

	invitee.TeamID = inviter.TeamID
	if err := s.users.Update(ctx, *invitee); err != nil {
		return err
	}

	slog.Info("user invited to team", "team_id", *inviter.TeamID, "user_id", invitee.ID)
	return nil
}

// Get returns the user's team and its members.
func (s *TeamService) Get(ctx context.Context, user model.User) (*model.Team, []model.User, error) {
	if user.TeamID == nil {
		return nil, nil, ErrNoTeam
	}

	team, err := s.teams.GetByID(ctx, *user.TeamID)
	if err != nil {
		return nil, nil, err
	}
	if team == nil {
		return nil, nil, ErrTeamNotFound
	}

	members, err := s.users.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

// SetSlackWebhook connects the team's Slack integration. Any team member may
// set it.
func (s *TeamService) SetSlackWebhook(ctx context.Context, user model.User, webhookURL string) error {
	webhookURL = strings.TrimSpace(webhookURL)
	if !strings.HasPrefix(webhookURL, slackWebhookPrefix) {
		return ErrInvalidWebhook
	}
	return s.updateWebhook(ctx, user, webhookURL)
}

// ClearSlackWebhook disconnects the team's Slack integration.
func (s *TeamService) ClearSlackWebhook(ctx context.Context, user model.User) error {
	return s.updateWebhook(ctx, user, "")
}

func (s *TeamService) updateWebhook(ctx context.Context, user model.User, webhookURL string) error {
	if user.TeamID == nil {
		return ErrNoTeam
	}
	team, err := s.teams.GetByID(ctx, *user.TeamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrTeamNotFound
	}

	team.SlackWebhookURL = webhookURL
	if err := s.teams.Update(ctx, *team); err != nil {
		return err
	}

	slog.Info("team slack webhook updated", "team_id", team.ID, "connected", webhookURL != "")
	return nil
}
