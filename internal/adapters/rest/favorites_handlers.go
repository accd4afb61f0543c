package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/internal/core/service"
)

// FavoritesHandler обслуживает избранное анонимного клиента.
type FavoritesHandler struct {
	store   *service.FavoritesStore
	likedUC usecases_port.GetLikedPropertiesUseCase
	shareUC usecases_port.BuildShareLinkUseCase
}

// NewFavoritesHandler - конструктор.
func NewFavoritesHandler(
	store *service.FavoritesStore,
	likedUC usecases_port.GetLikedPropertiesUseCase,
	shareUC usecases_port.BuildShareLinkUseCase) *FavoritesHandler {
	return &FavoritesHandler{
		store:   store,
		likedUC: likedUC,
		shareUC: shareUC,
	}
}

// ToggleFavorite обрабатывает POST /api/v1/favorites/toggle
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleFavorite"})
	clientID := contextkeys.ClientIDFromContext(r.Context())

	var reqDTO ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for toggle favorite", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.PropertyID == "" {
		logger.Warn("Missing property_id in toggle favorite request", nil)
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"client_id":   clientID,
		"property_id": reqDTO.PropertyID,
	})
	handlerLogger.Info("Processing request to toggle favorite", nil)

	isFavorite, err := h.store.Toggle(r.Context(), clientID, reqDTO.PropertyID)
	if err != nil {
		handlerLogger.Error("Toggle favorite failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}

	RespondWithJSON(w, http.StatusOK, ToggleFavoriteResponse{
		PropertyID: reqDTO.PropertyID,
		IsFavorite: isFavorite,
	})
}

// GetFavoriteIds обрабатывает GET /api/v1/favorites/ids
func (h *FavoritesHandler) GetFavoriteIds(w http.ResponseWriter, r *http.Request) {
	clientID := contextkeys.ClientIDFromContext(r.Context())

	ids := h.store.All(r.Context(), clientID)
	if ids == nil {
		ids = []string{}
	}
	RespondWithJSON(w, http.StatusOK, FavoriteIdsResponse{IDs: ids})
}

// GetLikedProperties обрабатывает GET /api/v1/favorites/properties.
// Параметр ids (шаринговая ссылка) имеет приоритет над собственным
// избранным клиента; market сужает выдачу до вкладки рынка.
func (h *FavoritesHandler) GetLikedProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetLikedProperties"})
	clientID := contextkeys.ClientIDFromContext(r.Context())

	limit, err := GetLimitOrDefault(r, defaultPageSize)
	if err != nil {
		logger.Warn("Invalid limit parameter", port.Fields{"limit": r.URL.Query().Get("limit")})
		WriteJSONError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	req := usecases_port.LikedPropertiesRequest{
		ClientID:  clientID,
		MarketTab: r.URL.Query().Get("market"),
		Limit:     limit,
		Page:      page,
	}
	if raw := r.URL.Query().Get("ids"); raw != "" {
		values := r.URL.Query()
		values.Set(domain.ParamIDs, raw)
		req.SharedIDs = domain.DecodeFilters(values, domain.FilterCriteria{}).IDs
	}

	handlerLogger := logger.WithFields(port.Fields{
		"client_id": clientID,
		"shared":    len(req.SharedIDs) > 0,
		"market":    req.MarketTab,
	})
	handlerLogger.Info("Processing request to get liked properties", nil)

	result, err := h.likedUC.Execute(r.Context(), req)
	if err != nil {
		handlerLogger.Error("Get liked properties use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve liked properties")
		return
	}

	response := PaginatedPropertiesResponse{
		Data:       make([]PropertyCardResponse, len(result.Items)),
		Total:      result.TotalCount,
		Page:       result.CurrentPage,
		TotalPages: result.TotalPages,
		PerPage:    result.ItemsPerPage,
	}
	for i, p := range result.Items {
		response.Data[i] = toPropertyCardResponse(p, h.store.IsFavorite(r.Context(), clientID, p.ID))
	}

	handlerLogger.Info("Successfully retrieved liked properties", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})
	RespondWithJSON(w, http.StatusOK, response)
}

// GetShareLink обрабатывает GET /api/v1/favorites/share-link
func (h *FavoritesHandler) GetShareLink(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetShareLink"})
	clientID := contextkeys.ClientIDFromContext(r.Context())

	link, err := h.shareUC.Execute(r.Context(), clientID)
	if err != nil {
		logger.Error("Build share link use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to build share link")
		return
	}

	RespondWithJSON(w, http.StatusOK, ShareLinkResponse{URL: link})
}
