package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// GetMapPropertiesUseCase — выборка для карты: кандидаты от upstream,
// затем локальный фильтрующий конвейер (включая полигон).
type GetMapPropertiesUseCase interface {
	Execute(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error)
}
