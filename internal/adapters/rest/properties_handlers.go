package rest

import (
	"net/http"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/internal/core/service"

	"github.com/go-chi/chi/v5"
)

const defaultPageSize = 24

// PropertiesHandler обслуживает поиск и карточки объектов.
type PropertiesHandler struct {
	findUC    usecases_port.FindPropertiesUseCase
	detailsUC usecases_port.GetPropertyDetailsUseCase
	favorites *service.FavoritesStore
}

// NewPropertiesHandler - конструктор.
func NewPropertiesHandler(
	findUC usecases_port.FindPropertiesUseCase,
	detailsUC usecases_port.GetPropertyDetailsUseCase,
	favorites *service.FavoritesStore) *PropertiesHandler {
	return &PropertiesHandler{
		findUC:    findUC,
		detailsUC: detailsUC,
		favorites: favorites,
	}
}

// FindProperties обрабатывает GET /api/v1/properties.
// Фильтры приходят прямо в query-строке: она и есть состояние каталога.
func (h *PropertiesHandler) FindProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindProperties"})

	query := r.URL.Query()
	defaults := domain.DefaultsForView(query.Get(domain.ParamMarket))
	criteria := domain.DecodeFilters(query, defaults)

	limit, err := GetLimitOrDefault(r, defaultPageSize)
	if err != nil {
		logger.Warn("Invalid limit parameter", port.Fields{"limit": r.URL.Query().Get("limit")})
		WriteJSONError(w, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"market": criteria.Market,
		"page":   criteria.Page,
	})
	handlerLogger.Info("Processing request to find properties", nil)

	result, err := h.findUC.Execute(r.Context(), criteria, limit)
	if err != nil {
		handlerLogger.Error("Find properties use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to find properties")
		return
	}

	clientID := contextkeys.ClientIDFromContext(r.Context())
	response := PaginatedPropertiesResponse{
		Data:       make([]PropertyCardResponse, len(result.Items)),
		Total:      result.TotalCount,
		Page:       result.CurrentPage,
		TotalPages: result.TotalPages,
		PerPage:    result.ItemsPerPage,
		Query:      domain.SetPageQuery(criteria.EncodeQuery(), criteria.Page).Encode(),
	}
	for i, p := range result.Items {
		response.Data[i] = toPropertyCardResponse(p, h.favorites.IsFavorite(r.Context(), clientID, p.ID))
	}

	handlerLogger.Info("Successfully found properties", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})
	RespondWithJSON(w, http.StatusOK, response)
}

// GetPropertyDetails обрабатывает GET /api/v1/properties/{propertyID}
func (h *PropertiesHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetPropertyDetails"})

	propertyID := chi.URLParam(r, "propertyID")
	if propertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "Property ID is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"property_id": propertyID})
	handlerLogger.Info("Processing request to get property details", nil)

	property, err := h.detailsUC.Execute(r.Context(), propertyID)
	if err != nil {
		handlerLogger.Error("Get property details use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get property details")
		return
	}
	if property == nil {
		WriteJSONError(w, http.StatusNotFound, "Property not found")
		return
	}

	clientID := contextkeys.ClientIDFromContext(r.Context())
	RespondWithJSON(w, http.StatusOK, toPropertyCardResponse(*property, h.favorites.IsFavorite(r.Context(), clientID, property.ID)))
}
