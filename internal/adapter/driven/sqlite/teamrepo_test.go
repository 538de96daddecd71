package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

func TestTeamRepoCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")

	created, err := repo.Create(ctx, model.Team{Name: "Core", OwnerID: owner.ID})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	team, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, "Core", team.Name)
	assert.Equal(t, owner.ID, team.OwnerID)
	assert.False(t, team.HasSlackWebhook())

	team, err = repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, team)
}

func TestTeamRepoUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	created, err := repo.Create(ctx, model.Team{Name: "Core", OwnerID: owner.ID})
	require.NoError(t, err)

	created.SlackWebhookURL = "https://hooks.slack.com/services/T/B/X"
	require.NoError(t, repo.Update(ctx, *created))

	team, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, team.HasSlackWebhook())

	err = repo.Update(ctx, model.Team{ID: 999, Name: "ghost"})
	assert.ErrorIs(t, err, driven.ErrNotFound)
}
