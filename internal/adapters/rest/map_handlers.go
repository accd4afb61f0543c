package rest

import (
	"net/http"
	"strconv"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/internal/core/service"
)

// MapHandler обслуживает карту: точки и geohash-кластеры.
type MapHandler struct {
	mapUC     usecases_port.GetMapPropertiesUseCase
	clusterUC usecases_port.ClusterMapPropertiesUseCase
	favorites *service.FavoritesStore
}

// NewMapHandler - конструктор.
func NewMapHandler(
	mapUC usecases_port.GetMapPropertiesUseCase,
	clusterUC usecases_port.ClusterMapPropertiesUseCase,
	favorites *service.FavoritesStore) *MapHandler {
	return &MapHandler{
		mapUC:     mapUC,
		clusterUC: clusterUC,
		favorites: favorites,
	}
}

// GetMapProperties обрабатывает GET /api/v1/map/properties.
func (h *MapHandler) GetMapProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetMapProperties"})

	criteria := domain.DecodeFilters(r.URL.Query(), domain.MapViewDefaults())

	handlerLogger := logger.WithFields(port.Fields{"market": criteria.Market})
	handlerLogger.Info("Processing request to get map properties", nil)

	properties, err := h.mapUC.Execute(r.Context(), criteria)
	if err != nil {
		handlerLogger.Error("Get map properties use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get map properties")
		return
	}

	clientID := contextkeys.ClientIDFromContext(r.Context())
	response := make([]PropertyCardResponse, len(properties))
	for i, p := range properties {
		response[i] = toPropertyCardResponse(p, h.favorites.IsFavorite(r.Context(), clientID, p.ID))
	}

	handlerLogger.Info("Successfully retrieved map properties", port.Fields{"items_count": len(response)})
	RespondWithJSON(w, http.StatusOK, response)
}

// GetMapClusters обрабатывает GET /api/v1/map/clusters.
// Точность сетки задается query-параметром precision (знаки geohash).
func (h *MapHandler) GetMapClusters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetMapClusters"})

	criteria := domain.DecodeFilters(r.URL.Query(), domain.MapViewDefaults())

	var precision uint
	if raw := r.URL.Query().Get("precision"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			logger.Warn("Invalid precision parameter", port.Fields{"precision": raw})
			WriteJSONError(w, http.StatusBadRequest, "Invalid precision parameter")
			return
		}
		precision = uint(v)
	}

	handlerLogger := logger.WithFields(port.Fields{
		"market":    criteria.Market,
		"precision": precision,
	})
	handlerLogger.Info("Processing request to get map clusters", nil)

	clusters, err := h.clusterUC.Execute(r.Context(), criteria, precision)
	if err != nil {
		handlerLogger.Error("Cluster map properties use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to cluster map properties")
		return
	}

	response := make([]MapClusterResponse, len(clusters))
	for i, c := range clusters {
		response[i] = MapClusterResponse{
			Geohash:     c.Geohash,
			Latitude:    c.Latitude,
			Longitude:   c.Longitude,
			Count:       c.Count,
			PropertyIDs: c.PropertyIDs,
		}
	}

	handlerLogger.Info("Successfully clustered map properties", port.Fields{"clusters_count": len(response)})
	RespondWithJSON(w, http.StatusOK, response)
}
