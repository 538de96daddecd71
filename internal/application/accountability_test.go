package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/meetinghub/internal/application"
	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockTrelloCredStore struct {
	creds   []model.TrelloCredential
	listErr error
	upserts []model.TrelloCredential
}

func (m *mockTrelloCredStore) Upsert(_ context.Context, cred model.TrelloCredential) error {
	m.upserts = append(m.upserts, cred)
	return nil
}

func (m *mockTrelloCredStore) GetByUser(_ context.Context, userID int64) (*model.TrelloCredential, error) {
	for _, c := range m.creds {
		if c.UserID == userID {
			cred := c
			return &cred, nil
		}
	}
	return nil, nil
}

func (m *mockTrelloCredStore) ListAll(_ context.Context) ([]model.TrelloCredential, error) {
	return m.creds, m.listErr
}

func (m *mockTrelloCredStore) Delete(_ context.Context, _ int64) error { return nil }

type mockUserStore struct {
	users map[int64]model.User
}

func (m *mockUserStore) Create(_ context.Context, user model.User) (*model.User, error) {
	return &user, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserStore) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserStore) Update(_ context.Context, _ model.User) error { return nil }

func (m *mockUserStore) ListByTeam(_ context.Context, _ int64) ([]model.User, error) {
	return nil, nil
}

type mockCardStore struct {
	cards map[int64][]model.TrackedCard
	adds  []model.TrackedCard
}

func (m *mockCardStore) Add(_ context.Context, card model.TrackedCard) (*model.TrackedCard, error) {
	m.adds = append(m.adds, card)
	return &card, nil
}

func (m *mockCardStore) ListByUser(_ context.Context, userID int64) ([]model.TrackedCard, error) {
	return m.cards[userID], nil
}

func (m *mockCardStore) Delete(_ context.Context, _ string) error { return nil }

// mockTrelloClient serves canned remote card state keyed by card ID. A card
// absent from the map fails with an error, like a deleted card would.
type mockTrelloClient struct {
	remote    map[string]model.RemoteCard
	listNames map[string]string
	getCalls  []string
}

func (m *mockTrelloClient) GetMember(_ context.Context) (*model.TrelloMember, error) {
	return &model.TrelloMember{Username: "tester"}, nil
}

func (m *mockTrelloClient) ListBoards(_ context.Context) ([]model.TrelloBoard, error) {
	return nil, nil
}

func (m *mockTrelloClient) ListLists(_ context.Context, _ string) ([]model.TrelloList, error) {
	return nil, nil
}

func (m *mockTrelloClient) GetCard(_ context.Context, cardID string) (*model.RemoteCard, error) {
	m.getCalls = append(m.getCalls, cardID)
	card, ok := m.remote[cardID]
	if !ok {
		return nil, errors.New("card not found")
	}
	return &card, nil
}

func (m *mockTrelloClient) GetList(_ context.Context, listID string) (*model.TrelloList, error) {
	name, ok := m.listNames[listID]
	if !ok {
		return nil, errors.New("list not found")
	}
	return &model.TrelloList{ID: listID, Name: name}, nil
}

func (m *mockTrelloClient) CreateCard(_ context.Context, listID, name, _ string) (*model.RemoteCard, error) {
	return &model.RemoteCard{ID: "new", Name: name, ListID: listID}, nil
}

type mockTrelloFactory struct {
	client driven.TrelloClient
	err    error
}

func (m *mockTrelloFactory) NewClient(_ string) (driven.TrelloClient, error) {
	return m.client, m.err
}

func newService(creds *mockTrelloCredStore, users *mockUserStore, cards *mockCardStore, factory *mockTrelloFactory) *application.AccountabilityService {
	return application.NewAccountabilityService(creds, users, cards, factory, time.Hour, time.Second)
}

// --- RunPass ---

func TestRunPassNoCredentials(t *testing.T) {
	svc := newService(
		&mockTrelloCredStore{},
		&mockUserStore{users: map[int64]model.User{}},
		&mockCardStore{},
		&mockTrelloFactory{client: &mockTrelloClient{}},
	)

	report, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.True(t, report.NothingToCheck)
	assert.Empty(t, report.Checks)
}

func TestRunPassUnchangedCard(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1, Username: "alice"}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {{CardID: "c1", UserID: 1, ListID: "todo"}},
	}}
	client := &mockTrelloClient{remote: map[string]model.RemoteCard{
		"c1": {ID: "c1", Name: "Write report", ListID: "todo"},
	}}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Checks, 1)
	assert.Equal(t, model.CheckUnchanged, report.Checks[0].Status)
	assert.Equal(t, "c1", report.Checks[0].CardID)
	assert.Empty(t, report.Checks[0].NewListID)
}

func TestRunPassMovedCard(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {{CardID: "c1", UserID: 1, ListID: "todo"}},
	}}
	client := &mockTrelloClient{
		remote:    map[string]model.RemoteCard{"c1": {ID: "c1", Name: "Write report", ListID: "done"}},
		listNames: map[string]string{"done": "Done"},
	}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Checks, 1)
	check := report.Checks[0]
	assert.Equal(t, model.CheckMoved, check.Status)
	assert.Equal(t, "todo", check.OldListID)
	assert.Equal(t, "done", check.NewListID)
	assert.Equal(t, "Done", check.NewListName)
}

func TestRunPassMovedCardListNameLookupFails(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {{CardID: "c1", UserID: 1, ListID: "todo"}},
	}}
	// No listNames entry: GetList fails, the raw ID is used as the name.
	client := &mockTrelloClient{
		remote: map[string]model.RemoteCard{"c1": {ID: "c1", ListID: "done"}},
	}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Checks, 1)
	assert.Equal(t, model.CheckMoved, report.Checks[0].Status)
	assert.Equal(t, "done", report.Checks[0].NewListName)
}

func TestRunPassFetchErrorContinues(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {
			{CardID: "gone", UserID: 1, ListID: "todo"},
			{CardID: "c2", UserID: 1, ListID: "todo"},
		},
	}}
	client := &mockTrelloClient{remote: map[string]model.RemoteCard{
		"c2": {ID: "c2", ListID: "todo"},
	}}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, model.CheckError, report.Checks[0].Status)
	assert.Equal(t, "gone", report.Checks[0].CardID)
	assert.NotEmpty(t, report.Checks[0].Detail)
	assert.Equal(t, model.CheckUnchanged, report.Checks[1].Status)
}

func TestRunPassOrphanedCredentialSkipped(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{
		{UserID: 99, Token: "orphan"},
		{UserID: 1, Token: "tok"},
	}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {{CardID: "c1", UserID: 1, ListID: "todo"}},
	}}
	client := &mockTrelloClient{remote: map[string]model.RemoteCard{
		"c1": {ID: "c1", ListID: "todo"},
	}}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)

	// Only user 1's card was checked; the orphan produced no signals.
	require.Len(t, report.Checks, 1)
	assert.Equal(t, "c1", report.Checks[0].CardID)
}

func TestRunPassClientConstructionErrorSkipsCredential(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {{CardID: "c1", UserID: 1, ListID: "todo"}},
	}}
	factory := &mockTrelloFactory{err: errors.New("api key not configured")}

	report, err := newService(creds, users, cards, factory).RunPass(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Checks)
	assert.False(t, report.NothingToCheck)
}

func TestRunPassCredentialListError(t *testing.T) {
	creds := &mockTrelloCredStore{listErr: errors.New("db locked")}
	svc := newService(creds, &mockUserStore{}, &mockCardStore{}, &mockTrelloFactory{})

	_, err := svc.RunPass(context.Background())
	assert.Error(t, err)
}

func TestRunPassDoesNotMutateStoredRecords(t *testing.T) {
	stored := model.TrackedCard{CardID: "c1", UserID: 1, BoardID: "b1", ListID: "todo"}
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{1: {stored}}}
	client := &mockTrelloClient{
		remote:    map[string]model.RemoteCard{"c1": {ID: "c1", ListID: "done"}},
		listNames: map[string]string{"done": "Done"},
	}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, model.CheckMoved, report.Checks[0].Status)

	// No writes of any kind reached the stores.
	assert.Empty(t, cards.adds)
	assert.Empty(t, creds.upserts)
	assert.Equal(t, "todo", cards.cards[1][0].ListID)
}

func TestRunPassIdempotent(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {
			{CardID: "c1", UserID: 1, ListID: "todo"},
			{CardID: "c2", UserID: 1, ListID: "todo"},
		},
	}}
	client := &mockTrelloClient{
		remote: map[string]model.RemoteCard{
			"c1": {ID: "c1", ListID: "todo"},
			"c2": {ID: "c2", ListID: "done"},
		},
		listNames: map[string]string{"done": "Done"},
	}
	svc := newService(creds, users, cards, &mockTrelloFactory{client: client})

	first, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	second, err := svc.RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, first.Checks, 2)
	assert.Equal(t, first.Checks, second.Checks)
}

func TestRunPassEndToEndScenario(t *testing.T) {
	// One credential, two tracked items: A unchanged, B moved. Exactly two
	// signals, in item order.
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1, Username: "alice"}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {
			{CardID: "a", UserID: 1, ListID: "todo"},
			{CardID: "b", UserID: 1, ListID: "todo"},
		},
	}}
	client := &mockTrelloClient{
		remote: map[string]model.RemoteCard{
			"a": {ID: "a", Name: "Item A", ListID: "todo"},
			"b": {ID: "b", Name: "Item B", ListID: "doing"},
		},
		listNames: map[string]string{"doing": "In Progress"},
	}

	report, err := newService(creds, users, cards, &mockTrelloFactory{client: client}).RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Checks, 2)
	assert.Equal(t, "a", report.Checks[0].CardID)
	assert.Equal(t, model.CheckUnchanged, report.Checks[0].Status)
	assert.Equal(t, "b", report.Checks[1].CardID)
	assert.Equal(t, model.CheckMoved, report.Checks[1].Status)
	assert.Equal(t, "todo", report.Checks[1].OldListID)
	assert.Equal(t, "doing", report.Checks[1].NewListID)
	assert.Equal(t, "In Progress", report.Checks[1].NewListName)
}

func TestRunPassStopsOnCanceledContext(t *testing.T) {
	creds := &mockTrelloCredStore{creds: []model.TrelloCredential{{UserID: 1, Token: "tok"}}}
	users := &mockUserStore{users: map[int64]model.User{1: {ID: 1}}}
	cards := &mockCardStore{cards: map[int64][]model.TrackedCard{
		1: {{CardID: "c1", UserID: 1, ListID: "todo"}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(creds, users, cards, &mockTrelloFactory{client: &mockTrelloClient{}}).RunPass(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	svc := newService(
		&mockTrelloCredStore{},
		&mockUserStore{users: map[int64]model.User{}},
		&mockCardStore{},
		&mockTrelloFactory{client: &mockTrelloClient{}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
