package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// ClusterMapPropertiesUseCase — свертка отфильтрованных точек карты в
// geohash-кластеры заданной точности.
type ClusterMapPropertiesUseCase interface {
	Execute(ctx context.Context, criteria domain.FilterCriteria, precision uint) ([]domain.MapCluster, error)
}
