package rest

import (
	"net/http"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
)

// FiltersHandler отдает справочники для панели фильтров.
type FiltersHandler struct {
	optionsUC usecases_port.GetFilterOptionsUseCase
}

func NewFiltersHandler(optionsUC usecases_port.GetFilterOptionsUseCase) *FiltersHandler {
	return &FiltersHandler{optionsUC: optionsUC}
}

// GetFilterOptions обрабатывает GET /api/v1/filters/options
func (h *FiltersHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFilterOptions"})
	logger.Info("Processing request to get filter options", nil)

	options, err := h.optionsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Get filter options use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get filter options")
		return
	}

	response := FacetOptionsResponse{
		Locations: options.Locations,
		Amenities: options.Amenities,
	}
	if response.Locations == nil {
		response.Locations = []string{}
	}
	if response.Amenities == nil {
		response.Amenities = []string{}
	}

	RespondWithJSON(w, http.StatusOK, response)
}
