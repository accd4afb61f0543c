package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetMapPropertiesUseCase struct {
	source port.PropertiesSourcePort
}

func NewGetMapPropertiesUseCase(source port.PropertiesSourcePort) *GetMapPropertiesUseCase {
	return &GetMapPropertiesUseCase{source: source}
}

// Execute собирает выборку для карты: кандидатов фильтрует upstream,
// но ядро прогоняет их через собственный конвейер еще раз — полигон и
// фасеты, которые upstream не понимает, применяются только здесь.
func (uc *GetMapPropertiesUseCase) Execute(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetMapProperties",
		"has_polygon": criteria.Polygon != nil,
	})

	ucLogger.Info("Use case started", nil)

	candidates, err := uc.source.FindForMap(ctx, criteria)
	if err != nil {
		ucLogger.Error("Upstream map fetch failed, returning empty set", err, nil)
		return []domain.Property{}, nil
	}

	filtered := domain.ApplyFilters(candidates, criteria)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": len(candidates),
		"matched":    len(filtered),
	})
	return filtered, nil
}
