package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFavoritesRepo — репозиторий в памяти для тестов стора.
type fakeFavoritesRepo struct {
	mu      sync.Mutex
	data    map[string][]string
	addErr  error
	findErr error
}

func newFakeFavoritesRepo() *fakeFavoritesRepo {
	return &fakeFavoritesRepo{data: make(map[string][]string)}
}

func (r *fakeFavoritesRepo) Add(_ context.Context, clientID, propertyID string) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.data[clientID] {
		if id == propertyID {
			return nil
		}
	}
	r.data[clientID] = append(r.data[clientID], propertyID)
	return nil
}

func (r *fakeFavoritesRepo) Remove(_ context.Context, clientID, propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.data[clientID][:0]
	for _, id := range r.data[clientID] {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	r.data[clientID] = kept
	return nil
}

func (r *fakeFavoritesRepo) FindIDsByClient(_ context.Context, clientID string) ([]string, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.data[clientID]...), nil
}

type fakeBroadcast struct {
	calls []string
	err   error
}

func (b *fakeBroadcast) PublishFavoritesUpdated(_ context.Context, clientID string) error {
	b.calls = append(b.calls, clientID)
	return b.err
}

func TestFavoritesStoreToggle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFavoritesRepo()
	store := NewFavoritesStore(repo, nil, nil)

	nowFavorite, err := store.Toggle(ctx, "client-1", "prop-1")
	require.NoError(t, err)
	assert.True(t, nowFavorite)
	assert.True(t, store.IsFavorite(ctx, "client-1", "prop-1"))
	assert.Equal(t, []string{"prop-1"}, repo.data["client-1"], "изменение должно дойти до репозитория")

	nowFavorite, err = store.Toggle(ctx, "client-1", "prop-1")
	require.NoError(t, err)
	assert.False(t, nowFavorite)
	assert.False(t, store.IsFavorite(ctx, "client-1", "prop-1"))
	assert.Empty(t, repo.data["client-1"])
}

func TestFavoritesStoreKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := NewFavoritesStore(newFakeFavoritesRepo(), nil, nil)

	for _, id := range []string{"c", "a", "b"} {
		_, err := store.Toggle(ctx, "client-1", id)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"c", "a", "b"}, store.All(ctx, "client-1"))

	// Чужой клиент набор не видит.
	assert.Empty(t, store.All(ctx, "client-2"))
}

func TestFavoritesStorePersistFailureKeepsMirror(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFavoritesRepo()
	repo.addErr = errors.New("disk full")
	store := NewFavoritesStore(repo, nil, nil)

	nowFavorite, err := store.Toggle(ctx, "client-1", "prop-1")
	require.NoError(t, err, "отказ персистентности не должен ломать клик")
	assert.True(t, nowFavorite)
	assert.True(t, store.IsFavorite(ctx, "client-1", "prop-1"))
	assert.Empty(t, repo.data["client-1"])
}

func TestFavoritesStoreUnreadableRepoTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFavoritesRepo()
	repo.findErr = errors.New("connection refused")
	store := NewFavoritesStore(repo, nil, nil)

	assert.Empty(t, store.All(ctx, "client-1"))
	assert.False(t, store.IsFavorite(ctx, "client-1", "prop-1"))
}

func TestFavoritesStoreBroadcast(t *testing.T) {
	ctx := context.Background()
	broadcast := &fakeBroadcast{}
	store := NewFavoritesStore(newFakeFavoritesRepo(), broadcast, nil)

	_, err := store.Toggle(ctx, "client-1", "prop-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"client-1"}, broadcast.calls)

	// Отказ брокера не откатывает ни зеркало, ни репозиторий.
	broadcast.err = errors.New("broker down")
	_, err = store.Toggle(ctx, "client-1", "prop-2")
	require.NoError(t, err)
	assert.True(t, store.IsFavorite(ctx, "client-1", "prop-2"))
}

func TestFavoritesStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	store := NewFavoritesStore(newFakeFavoritesRepo(), nil, nil)

	var gotClient string
	var gotIDs []string
	store.Subscribe(func(clientID string, ids []string) {
		gotClient = clientID
		gotIDs = ids
	})

	_, err := store.Toggle(ctx, "client-1", "prop-1")
	require.NoError(t, err)

	assert.Equal(t, "client-1", gotClient)
	assert.Equal(t, []string{"prop-1"}, gotIDs)
}

// Два стора над одним репозиторием: изменение в первом доезжает до второго
// через Refresh — так синхронизируются разные экземпляры сервиса.
func TestFavoritesStoreRefreshAcrossInstances(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFavoritesRepo()
	first := NewFavoritesStore(repo, nil, nil)
	second := NewFavoritesStore(repo, nil, nil)

	// Второй экземпляр уже закэшировал пустой набор.
	assert.Empty(t, second.All(ctx, "client-1"))

	_, err := first.Toggle(ctx, "client-1", "prop-1")
	require.NoError(t, err)
	assert.Empty(t, second.All(ctx, "client-1"), "без оповещения кэш второго экземпляра устаревший")

	var notified []string
	second.Subscribe(func(_ string, ids []string) { notified = ids })
	second.Refresh(ctx, "client-1")

	assert.Equal(t, []string{"prop-1"}, second.All(ctx, "client-1"))
	assert.Equal(t, []string{"prop-1"}, notified)
}
