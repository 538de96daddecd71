package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

func TestCardRepoAddAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	first, err := repo.Add(ctx, model.TrackedCard{
		CardID:      "c1",
		UserID:      user.ID,
		BoardID:     "b1",
		ListID:      "l1",
		Description: "Draft release notes",
		Assignee:    "Alice",
		DueDate:     "2026-07-01",
	})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = repo.Add(ctx, model.TrackedCard{
		CardID: "c2", UserID: user.ID, BoardID: "b1", ListID: "l1", Description: "Set up staging",
	})
	require.NoError(t, err)

	cards, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	// Creation order.
	assert.Equal(t, "c1", cards[0].CardID)
	assert.Equal(t, "Draft release notes", cards[0].Description)
	assert.Equal(t, "Alice", cards[0].Assignee)
	assert.Equal(t, "2026-07-01", cards[0].DueDate)
	assert.Equal(t, "c2", cards[1].CardID)
}

func TestCardRepoDuplicateCardID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	_, err := repo.Add(ctx, model.TrackedCard{CardID: "c1", UserID: user.ID, BoardID: "b", ListID: "l", Description: "x"})
	require.NoError(t, err)

	_, err = repo.Add(ctx, model.TrackedCard{CardID: "c1", UserID: user.ID, BoardID: "b", ListID: "l", Description: "y"})
	assert.ErrorIs(t, err, ErrCardAlreadyTracked)
}

func TestCardRepoListByUserScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := repo.Add(ctx, model.TrackedCard{CardID: "a1", UserID: alice.ID, BoardID: "b", ListID: "l", Description: "x"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, model.TrackedCard{CardID: "b1", UserID: bob.ID, BoardID: "b", ListID: "l", Description: "y"})
	require.NoError(t, err)

	cards, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "a1", cards[0].CardID)

	cards, err = repo.ListByUser(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCardRepoDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCardRepo(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	_, err := repo.Add(ctx, model.TrackedCard{CardID: "c1", UserID: user.ID, BoardID: "b", ListID: "l", Description: "x"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "c1"))

	cards, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	require.NoError(t, repo.Delete(ctx, "c1"))
}
