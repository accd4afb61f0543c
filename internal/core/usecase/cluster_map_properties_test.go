package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/core/domain"
)

type stubMapProperties struct {
	points []domain.Property
	err    error
}

func (s *stubMapProperties) Execute(context.Context, domain.FilterCriteria) ([]domain.Property, error) {
	return s.points, s.err
}

func pt(id string, lat, lng float64) domain.Property {
	return domain.Property{ID: id, Latitude: &lat, Longitude: &lng}
}

func TestClusterMapProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("nearby points collapse into one cluster", func(t *testing.T) {
		// Две точки в сотне метров друг от друга и одна в другом городе.
		stub := &stubMapProperties{points: []domain.Property{
			pt("a", 36.5100, -4.8800),
			pt("b", 36.5101, -4.8801),
			pt("c", 40.4168, -3.7038),
		}}
		uc := NewClusterMapPropertiesUseCase(stub)

		clusters, err := uc.Execute(ctx, domain.FilterCriteria{}, 5)
		require.NoError(t, err)
		require.Len(t, clusters, 2)

		// Крупный кластер первым.
		big := clusters[0]
		assert.Equal(t, 2, big.Count)
		assert.ElementsMatch(t, []string{"a", "b"}, big.PropertyIDs)
		assert.InDelta(t, 36.51005, big.Latitude, 0.0001)
		assert.InDelta(t, -4.88005, big.Longitude, 0.0001)

		assert.Equal(t, 1, clusters[1].Count)
		assert.Equal(t, []string{"c"}, clusters[1].PropertyIDs)
	})

	t.Run("points without coordinates are skipped", func(t *testing.T) {
		noCoords := domain.Property{ID: "x"}
		stub := &stubMapProperties{points: []domain.Property{pt("a", 36.51, -4.88), noCoords}}
		uc := NewClusterMapPropertiesUseCase(stub)

		clusters, err := uc.Execute(ctx, domain.FilterCriteria{}, 5)
		require.NoError(t, err)
		require.Len(t, clusters, 1)
		assert.Equal(t, []string{"a"}, clusters[0].PropertyIDs)
	})

	t.Run("out of range precision falls back to default", func(t *testing.T) {
		stub := &stubMapProperties{points: []domain.Property{pt("a", 36.51, -4.88)}}
		uc := NewClusterMapPropertiesUseCase(stub)

		clusters, err := uc.Execute(ctx, domain.FilterCriteria{}, 99)
		require.NoError(t, err)
		require.Len(t, clusters, 1)
		assert.Len(t, clusters[0].Geohash, defaultClusterPrecision)
	})

	t.Run("upstream error is propagated", func(t *testing.T) {
		stub := &stubMapProperties{err: errors.New("upstream down")}
		uc := NewClusterMapPropertiesUseCase(stub)

		_, err := uc.Execute(ctx, domain.FilterCriteria{}, 5)
		assert.Error(t, err)
	})

	t.Run("empty input gives empty clusters", func(t *testing.T) {
		uc := NewClusterMapPropertiesUseCase(&stubMapProperties{})
		clusters, err := uc.Execute(ctx, domain.FilterCriteria{}, 5)
		require.NoError(t, err)
		assert.Empty(t, clusters)
	})
}
