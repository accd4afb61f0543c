package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
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

type stubFindProperties struct {
	lastCriteria domain.FilterCriteria
	lastLimit    int
	result       *domain.PaginatedProperties
}

func (s *stubFindProperties) Execute(_ context.Context, criteria domain.FilterCriteria, limit int) (*domain.PaginatedProperties, error) {
	s.lastCriteria = criteria
	s.lastLimit = limit
	return s.result, nil
}

type stubPropertyDetails struct {
	property *domain.Property
}

func (s *stubPropertyDetails) Execute(context.Context, string) (*domain.Property, error) {
	return s.property, nil
}

func newTestStore() *service.FavoritesStore {
	return service.NewFavoritesStore(&memFavoritesRepo{data: make(map[string][]string)}, nil, nil)
}

func TestFindPropertiesHandler(t *testing.T) {
	price := 350000.0
	store := newTestStore()
	findUC := &stubFindProperties{result: &domain.PaginatedProperties{
		Items: []domain.Property{
			{ID: "42", Title: "Sea View Villa", Market: domain.MarketSecondary, Price: &price},
		},
		TotalCount:   1,
		CurrentPage:  2,
		TotalPages:   5,
		ItemsPerPage: 24,
	}}
	handler := NewPropertiesHandler(findUC, &stubPropertyDetails{}, store)

	_, err := store.Toggle(context.Background(), "client-1", "42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties?market=secondary&type=villa&page=2", nil)
	req = req.WithContext(contextkeys.ContextWithClientID(req.Context(), "client-1"))
	rec := httptest.NewRecorder()

	handler.FindProperties(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Дефолты страницы подставлены, фасеты из query разобраны.
	assert.Equal(t, domain.MarketSecondary, findUC.lastCriteria.Market)
	assert.Equal(t, domain.SortPriceAsc, findUC.lastCriteria.Sort)
	assert.Equal(t, []string{"villa"}, findUC.lastCriteria.Types)
	assert.Equal(t, 2, findUC.lastCriteria.Page)
	assert.Equal(t, defaultPageSize, findUC.lastLimit)

	var resp PaginatedPropertiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "42", resp.Data[0].ID)
	assert.True(t, resp.Data[0].IsFavorite, "избранное клиента должно быть помечено в выдаче")
	assert.Equal(t, int64(1), resp.Total)

	// Каноническая строка отражает и фильтры, и текущую страницу.
	assert.Contains(t, resp.Query, "market=secondary")
	assert.Contains(t, resp.Query, "type=villa")
	assert.Contains(t, resp.Query, "page=2")
}

func TestFindPropertiesHandlerRejectsBadLimit(t *testing.T) {
	handler := NewPropertiesHandler(&stubFindProperties{}, &stubPropertyDetails{}, newTestStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties?limit=oops", nil)
	rec := httptest.NewRecorder()

	handler.FindProperties(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFavoriteHandler(t *testing.T) {
	store := newTestStore()
	handler := NewFavoritesHandler(store, nil, nil)

	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/toggle", strings.NewReader(body))
		req = req.WithContext(contextkeys.ContextWithClientID(req.Context(), "client-1"))
		rec := httptest.NewRecorder()
		handler.ToggleFavorite(rec, req)
		return rec
	}

	rec := do(`{"property_id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ToggleFavoriteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsFavorite)

	// Повторный клик снимает отметку.
	rec = do(`{"property_id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsFavorite)

	assert.Equal(t, http.StatusBadRequest, do(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(`{broken`).Code)
}

func TestClientIDMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextkeys.ClientIDFromContext(r.Context())
	})
	wrapped := ClientIDMiddleware(next)

	t.Run("valid header is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client-ID", "0b9ce9d4-9e44-4a9a-9e44-0b9ce9d49e44")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, "0b9ce9d4-9e44-4a9a-9e44-0b9ce9d49e44", seen)
		assert.Equal(t, seen, rec.Header().Get("X-Client-ID"))
	})

	t.Run("missing or garbage header gets a fresh id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client-ID", "not-a-uuid")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		assert.NotEmpty(t, seen)
		assert.NotEqual(t, "not-a-uuid", seen)
		assert.Equal(t, seen, rec.Header().Get("X-Client-ID"))
	})
}
