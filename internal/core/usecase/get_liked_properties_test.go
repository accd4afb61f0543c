package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/internal/core/service"
)

type memFavoritesRepo struct {
	data map[string][]string
}

func (r *memFavoritesRepo) Add(_ context.Context, clientID, propertyID string) error {
	r.data[clientID] = append(r.data[clientID], propertyID)
	return nil
}

func (r *memFavoritesRepo) Remove(_ context.Context, clientID, propertyID string) error {
	kept := r.data[clientID][:0]
	for _, id := range r.data[clientID] {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	r.data[clientID] = kept
	return nil
}

func (r *memFavoritesRepo) FindIDsByClient(_ context.Context, clientID string) ([]string, error) {
	return append([]string(nil), r.data[clientID]...), nil
}

// fakePropertiesSource отдает заранее заданный каталог; FindProperties
// намеренно возвращает карточки не в порядке запрошенных ids.
type fakePropertiesSource struct {
	catalog map[string]domain.Property
	findErr error

	lastCriteria domain.FilterCriteria
	lastLimit    int
}

func (s *fakePropertiesSource) FindProperties(_ context.Context, criteria domain.FilterCriteria, limit int) (*domain.PaginatedProperties, error) {
	s.lastCriteria = criteria
	s.lastLimit = limit
	if s.findErr != nil {
		return nil, s.findErr
	}
	var items []domain.Property
	for _, p := range s.catalog {
		for _, id := range criteria.IDs {
			if p.ID == id {
				items = append(items, p)
				break
			}
		}
	}
	return &domain.PaginatedProperties{
		Items:        items,
		TotalCount:   int64(len(items)),
		CurrentPage:  1,
		TotalPages:   1,
		ItemsPerPage: limit,
	}, nil
}

func (s *fakePropertiesSource) GetPropertyByID(_ context.Context, id string) (*domain.Property, error) {
	if p, ok := s.catalog[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *fakePropertiesSource) FindForMap(context.Context, domain.FilterCriteria) ([]domain.Property, error) {
	return nil, nil
}

func (s *fakePropertiesSource) GetFacetOptions(context.Context) (*domain.FacetOptions, error) {
	return &domain.FacetOptions{}, nil
}

func likedFixture() (*service.FavoritesStore, *fakePropertiesSource) {
	source := &fakePropertiesSource{catalog: map[string]domain.Property{
		"a": {ID: "a", Market: domain.MarketSecondary},
		"b": {ID: "b", Market: domain.MarketNewBuilding},
		"c": {ID: "c", Market: domain.MarketSecondary},
		"d": {ID: "d", Market: domain.MarketRent},
	}}
	store := service.NewFavoritesStore(&memFavoritesRepo{data: make(map[string][]string)}, nil, nil)
	return store, source
}

func TestGetLikedProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("empty favorites give empty page", func(t *testing.T) {
		store, source := likedFixture()
		uc := NewGetLikedPropertiesUseCase(store, source)

		result, err := uc.Execute(ctx, usecases_port.LikedPropertiesRequest{ClientID: "client-1"})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Zero(t, result.TotalCount)
	})

	t.Run("insertion order is restored", func(t *testing.T) {
		store, source := likedFixture()
		for _, id := range []string{"c", "a", "b"} {
			_, err := store.Toggle(ctx, "client-1", id)
			require.NoError(t, err)
		}
		uc := NewGetLikedPropertiesUseCase(store, source)

		result, err := uc.Execute(ctx, usecases_port.LikedPropertiesRequest{ClientID: "client-1"})
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.Equal(t, []string{"c", "a", "b"},
			[]string{result.Items[0].ID, result.Items[1].ID, result.Items[2].ID})

		// Upstream спрашивается одним explicit-ids запросом.
		assert.Equal(t, []string{"c", "a", "b"}, source.lastCriteria.IDs)
		assert.Equal(t, 3, source.lastLimit)
	})

	t.Run("shared ids take priority over own favorites", func(t *testing.T) {
		store, source := likedFixture()
		_, err := store.Toggle(ctx, "client-1", "a")
		require.NoError(t, err)
		uc := NewGetLikedPropertiesUseCase(store, source)

		result, err := uc.Execute(ctx, usecases_port.LikedPropertiesRequest{
			ClientID:  "client-1",
			SharedIDs: []string{"d", "b"},
		})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "d", result.Items[0].ID)
		assert.Equal(t, "b", result.Items[1].ID)
	})

	t.Run("ids unknown upstream are skipped", func(t *testing.T) {
		store, source := likedFixture()
		uc := NewGetLikedPropertiesUseCase(store, source)

		result, err := uc.Execute(ctx, usecases_port.LikedPropertiesRequest{
			ClientID:  "client-1",
			SharedIDs: []string{"a", "deleted", "b"},
		})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "a", result.Items[0].ID)
		assert.Equal(t, "b", result.Items[1].ID)
	})

	t.Run("market tab narrows the list", func(t *testing.T) {
		store, source := likedFixture()
		uc := NewGetLikedPropertiesUseCase(store, source)

		result, err := uc.Execute(ctx, usecases_port.LikedPropertiesRequest{
			ClientID:  "client-1",
			SharedIDs: []string{"a", "b", "c", "d"},
			MarketTab: domain.MarketSecondary,
		})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "a", result.Items[0].ID)
		assert.Equal(t, "c", result.Items[1].ID)
		assert.Equal(t, int64(2), result.TotalCount)
	})

	t.Run("pagination slices the ordered list", func(t *testing.T) {
		store, source := likedFixture()
		uc := NewGetLikedPropertiesUseCase(store, source)

		req := usecases_port.LikedPropertiesRequest{
			ClientID:  "client-1",
			SharedIDs: []string{"a", "b", "c", "d"},
			Limit:     2,
			Page:      2,
		}
		result, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "c", result.Items[0].ID)
		assert.Equal(t, "d", result.Items[1].ID)
		assert.Equal(t, int64(4), result.TotalCount)
		assert.Equal(t, 2, result.TotalPages)

		// Страница за концом списка — пустая, но не ошибка.
		req.Page = 9
		result, err = uc.Execute(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("upstream failure degrades to empty page", func(t *testing.T) {
		store, source := likedFixture()
		source.findErr = errors.New("upstream down")
		uc := NewGetLikedPropertiesUseCase(store, source)

		result, err := uc.Execute(ctx, usecases_port.LikedPropertiesRequest{
			ClientID:  "client-1",
			SharedIDs: []string{"a"},
		})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})
}
