package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetFilterOptionsUseCase struct {
	source port.PropertiesSourcePort
}

func NewGetFilterOptionsUseCase(source port.PropertiesSourcePort) *GetFilterOptionsUseCase {
	return &GetFilterOptionsUseCase{source: source}
}

// Execute отдает справочники панели фильтров. Недоступный upstream
// деградирует до пустых списков — панель просто не покажет подсказок.
func (uc *GetFilterOptionsUseCase) Execute(ctx context.Context) (*domain.FacetOptions, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetFilterOptions"})

	ucLogger.Info("Use case started", nil)

	options, err := uc.source.GetFacetOptions(ctx)
	if err != nil {
		ucLogger.Error("Failed to get facet options, returning empty lists", err, nil)
		return &domain.FacetOptions{Locations: []string{}, Amenities: []string{}}, nil
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"locations": len(options.Locations),
		"amenities": len(options.Amenities),
	})
	return options, nil
}
