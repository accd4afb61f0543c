package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// FindPropertiesUseCase — постраничный поиск объектов по критериям.
// Непустой criteria.IDs отменяет остальные фасеты.
type FindPropertiesUseCase interface {
	Execute(ctx context.Context, criteria domain.FilterCriteria, limit int) (*domain.PaginatedProperties, error)
}
