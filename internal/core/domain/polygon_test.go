package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolygon(t *testing.T) {
	t.Run("geojson feature", func(t *testing.T) {
		blob := `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[-5.0,36.4],[-4.7,36.4],[-4.7,36.6],[-5.0,36.4]]]}}`
		poly, err := ParsePolygon(blob)
		require.NoError(t, err)
		// Замыкающая точка отброшена.
		assert.Len(t, poly.Ring, 3)
	})

	t.Run("bare geometry", func(t *testing.T) {
		blob := `{"type":"Polygon","coordinates":[[[-5.0,36.4],[-4.7,36.4],[-4.7,36.6]]]}`
		poly, err := ParsePolygon(blob)
		require.NoError(t, err)
		assert.Len(t, poly.Ring, 3)
	})

	t.Run("bare ring", func(t *testing.T) {
		blob := `[[-5.0,36.4],[-4.7,36.4],[-4.7,36.6]]`
		poly, err := ParsePolygon(blob)
		require.NoError(t, err)
		assert.Equal(t, GeoPoint{Lng: -5.0, Lat: 36.4}, poly.Ring[0])
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, blob := range []string{"", "{not json", `{"type":"Feature"}`, `[[1,2],[3,4]]`} {
			_, err := ParsePolygon(blob)
			assert.Error(t, err, "blob=%q", blob)
		}
	})
}

func TestPolygonEncodeRoundTrip(t *testing.T) {
	poly := Polygon{Ring: []GeoPoint{{Lng: -5.0, Lat: 36.4}, {Lng: -4.7, Lat: 36.4}, {Lng: -4.7, Lat: 36.6}}}

	parsed, err := ParsePolygon(poly.Encode())
	require.NoError(t, err)
	assert.Equal(t, poly.Ring, parsed.Ring)
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{Ring: []GeoPoint{
		{Lng: 0, Lat: 0}, {Lng: 10, Lat: 0}, {Lng: 10, Lat: 10}, {Lng: 0, Lat: 10},
	}}

	assert.True(t, square.Contains(5, 5))
	assert.False(t, square.Contains(15, 5))
	assert.False(t, square.Contains(5, -1))

	// Вырожденное кольцо ничего не содержит.
	degenerate := Polygon{Ring: []GeoPoint{{Lng: 0, Lat: 0}, {Lng: 1, Lat: 1}}}
	assert.False(t, degenerate.Contains(0.5, 0.5))
}
