package usecase

import (
	"context"
	"sort"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"

	"github.com/mmcloughlin/geohash"
)

// Точность по умолчанию — ячейка ~5x5 км, разумный зум для побережья.
const (
	defaultClusterPrecision = 5
	minClusterPrecision     = 1
	maxClusterPrecision     = 8
)

type ClusterMapPropertiesUseCase struct {
	mapProperties usecases_port.GetMapPropertiesUseCase
}

func NewClusterMapPropertiesUseCase(mapProperties usecases_port.GetMapPropertiesUseCase) *ClusterMapPropertiesUseCase {
	return &ClusterMapPropertiesUseCase{mapProperties: mapProperties}
}

// Execute сворачивает отфильтрованные точки карты в geohash-ячейки.
// Центр кластера — среднее координат его членов; список идентификаторов
// позволяет раскрыть кластер запросом с explicit ids.
func (uc *ClusterMapPropertiesUseCase) Execute(ctx context.Context, criteria domain.FilterCriteria, precision uint) ([]domain.MapCluster, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "ClusterMapProperties",
		"precision": precision,
	})

	ucLogger.Info("Use case started", nil)

	if precision < minClusterPrecision || precision > maxClusterPrecision {
		precision = defaultClusterPrecision
	}

	properties, err := uc.mapProperties.Execute(ctx, criteria)
	if err != nil {
		ucLogger.Error("Failed to get map properties", err, nil)
		return nil, err
	}

	buckets := make(map[string]*domain.MapCluster)
	for _, p := range properties {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		cell := geohash.EncodeWithPrecision(*p.Latitude, *p.Longitude, precision)
		cluster, ok := buckets[cell]
		if !ok {
			cluster = &domain.MapCluster{Geohash: cell}
			buckets[cell] = cluster
		}
		cluster.Latitude += *p.Latitude
		cluster.Longitude += *p.Longitude
		cluster.Count++
		cluster.PropertyIDs = append(cluster.PropertyIDs, p.ID)
	}

	clusters := make([]domain.MapCluster, 0, len(buckets))
	for _, cluster := range buckets {
		cluster.Latitude /= float64(cluster.Count)
		cluster.Longitude /= float64(cluster.Count)
		clusters = append(clusters, *cluster)
	}
	// Стабильный порядок для ответа: крупные кластеры первыми.
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		return clusters[i].Geohash < clusters[j].Geohash
	})

	ucLogger.Info("Use case finished successfully", port.Fields{
		"points":   len(properties),
		"clusters": len(clusters),
	})
	return clusters, nil
}
