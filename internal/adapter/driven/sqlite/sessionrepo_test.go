package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

func TestSessionRepoRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	require.NoError(t, repo.Create(ctx, model.Session{
		Token:     "tok-1",
		UserID:    user.ID,
		ExpiresAt: expires,
	}))

	session, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.UserID)
	assert.WithinDuration(t, expires, session.ExpiresAt, time.Second)

	session, err = repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepoDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	require.NoError(t, repo.Create(ctx, model.Session{
		Token: "tok-1", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, repo.Delete(ctx, "tok-1"))

	session, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepoDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	require.NoError(t, repo.Create(ctx, model.Session{
		Token: "live", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, model.Session{
		Token: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour),
	}))

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	session, err := repo.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = repo.Get(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, session)
}
