package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProperty() Property {
	return Property{
		ID:           "42",
		Title:        "Sea View Villa",
		Market:       MarketSecondary,
		PropertyType: "villa",
		Price:        floatPtr(350000),
		Bedrooms:     intPtr(3),
		Size:         floatPtr(150),
		Town:         "Marbella",
		Amenities:    []string{"pool", "garden", "gym"},
		Latitude:     floatPtr(36.51),
		Longitude:    floatPtr(-4.88),
	}
}

func TestMatchesFilters(t *testing.T) {
	t.Run("empty criteria match everything", func(t *testing.T) {
		assert.True(t, MatchesFilters(sampleProperty(), FilterCriteria{}))
	})

	t.Run("price range", func(t *testing.T) {
		p := sampleProperty()
		c := FilterCriteria{PriceMin: floatPtr(200000), PriceMax: floatPtr(500000), Bedrooms: []string{"2"}}
		assert.False(t, MatchesFilters(p, c), "three bedrooms must not match a two-bedroom facet")

		c.Bedrooms = []string{"3"}
		assert.True(t, MatchesFilters(p, c))

		c.PriceMax = floatPtr(300000)
		assert.False(t, MatchesFilters(p, c))
	})

	t.Run("missing price is not filtered by price range", func(t *testing.T) {
		p := sampleProperty()
		p.Price = nil
		c := FilterCriteria{PriceMin: floatPtr(1000000)}
		assert.True(t, MatchesFilters(p, c))
	})

	t.Run("inverted price range matches nothing with a price", func(t *testing.T) {
		p := sampleProperty()
		c := FilterCriteria{PriceMin: floatPtr(500000), PriceMax: floatPtr(100000)}
		assert.False(t, MatchesFilters(p, c))
	})

	t.Run("types are OR, amenities are AND", func(t *testing.T) {
		p := sampleProperty()

		assert.True(t, MatchesFilters(p, FilterCriteria{Types: []string{"apartment", "villa"}}))
		assert.False(t, MatchesFilters(p, FilterCriteria{Types: []string{"apartment", "penthouse"}}))

		assert.True(t, MatchesFilters(p, FilterCriteria{Amenities: []string{"pool", "gym"}}))
		assert.False(t, MatchesFilters(p, FilterCriteria{Amenities: []string{"pool", "sauna"}}))
	})

	t.Run("search is case-insensitive substring of title", func(t *testing.T) {
		p := sampleProperty()
		assert.True(t, MatchesFilters(p, FilterCriteria{Search: "sea view"}))
		assert.True(t, MatchesFilters(p, FilterCriteria{Search: "VILLA"}))
		assert.False(t, MatchesFilters(p, FilterCriteria{Search: "penthouse"}))
	})

	t.Run("location matches in both directions", func(t *testing.T) {
		p := sampleProperty()
		p.Town = "Marbella East"
		assert.True(t, MatchesFilters(p, FilterCriteria{Locations: []string{"marbella"}}),
			"selected location is contained in the town")

		p.Town = "Banus"
		assert.True(t, MatchesFilters(p, FilterCriteria{Locations: []string{"Puerto Banus Marina"}}),
			"town is contained in the selected location")

		p.Town = "Estepona"
		assert.False(t, MatchesFilters(p, FilterCriteria{Locations: []string{"Marbella"}}))
	})

	t.Run("bedrooms buckets", func(t *testing.T) {
		cases := []struct {
			beds     int
			selected []string
			want     bool
		}{
			{0, []string{BedroomsStudio}, true},
			{1, []string{BedroomsStudio}, false},
			{0, []string{BedroomsStudio, "2"}, true},
			{2, []string{"2"}, true},
			{3, []string{"2"}, false},
			{6, []string{"6"}, true},
			{9, []string{"6"}, true},
			{5, []string{"6"}, false},
			{4, []string{"3+"}, true},
			{2, []string{"3+"}, false},
		}
		for _, tc := range cases {
			p := sampleProperty()
			p.Bedrooms = intPtr(tc.beds)
			got := MatchesFilters(p, FilterCriteria{Bedrooms: tc.selected})
			assert.Equal(t, tc.want, got, "beds=%d selected=%v", tc.beds, tc.selected)
		}
	})

	t.Run("bedrooms facet requires known bedroom count", func(t *testing.T) {
		p := sampleProperty()
		p.Bedrooms = nil
		assert.False(t, MatchesFilters(p, FilterCriteria{Bedrooms: []string{"2"}}))
	})

	t.Run("market and rent type", func(t *testing.T) {
		p := sampleProperty()
		assert.False(t, MatchesFilters(p, FilterCriteria{Market: MarketNewBuilding}))
		assert.True(t, MatchesFilters(p, FilterCriteria{Market: MarketSecondary}))

		rental := sampleProperty()
		rental.Market = MarketRent
		rental.RentType = RentTypeLong
		assert.True(t, MatchesFilters(rental, FilterCriteria{Market: MarketRent, RentType: RentTypeLong}))
		assert.False(t, MatchesFilters(rental, FilterCriteria{Market: MarketRent, RentType: RentTypeShort}))

		// Вне рынка аренды rentType не участвует в отборе.
		assert.True(t, MatchesFilters(p, FilterCriteria{Market: MarketSecondary, RentType: RentTypeShort}))
	})

	t.Run("explicit ids override all other facets", func(t *testing.T) {
		p := sampleProperty()
		c := FilterCriteria{
			IDs:      []string{"5", "42", "9"},
			PriceMin: floatPtr(9000000),
			Market:   MarketRent,
		}
		assert.True(t, MatchesFilters(p, c))

		c.IDs = []string{"5", "9"}
		assert.False(t, MatchesFilters(p, c))
	})

	t.Run("polygon excludes properties without coordinates", func(t *testing.T) {
		poly := &Polygon{Ring: []GeoPoint{
			{Lng: -5.0, Lat: 36.4}, {Lng: -4.7, Lat: 36.4}, {Lng: -4.7, Lat: 36.6}, {Lng: -5.0, Lat: 36.6},
		}}

		inside := sampleProperty()
		assert.True(t, MatchesFilters(inside, FilterCriteria{Polygon: poly}))

		outside := sampleProperty()
		outside.Latitude = floatPtr(40.0)
		assert.False(t, MatchesFilters(outside, FilterCriteria{Polygon: poly}))

		noCoords := sampleProperty()
		noCoords.Latitude = nil
		assert.False(t, MatchesFilters(noCoords, FilterCriteria{Polygon: poly}))
	})
}

func TestApplyFilters(t *testing.T) {
	mk := func(id string, price float64, created time.Time) Property {
		return Property{ID: id, Market: MarketSecondary, Price: floatPtr(price), CreatedAt: created}
	}
	now := time.Now()
	candidates := []Property{
		mk("a", 300, now.Add(-time.Hour)),
		mk("b", 100, now),
		mk("c", 200, now.Add(-2*time.Hour)),
	}

	t.Run("filters then sorts", func(t *testing.T) {
		out := ApplyFilters(candidates, FilterCriteria{Sort: SortPriceAsc, PriceMax: floatPtr(250)})
		require.Len(t, out, 2)
		assert.Equal(t, "b", out[0].ID)
		assert.Equal(t, "c", out[1].ID)
	})

	t.Run("date sort puts newest first", func(t *testing.T) {
		out := ApplyFilters(candidates, FilterCriteria{Sort: SortDateDesc})
		require.Len(t, out, 3)
		assert.Equal(t, []string{"b", "a", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
	})

	t.Run("recommended keeps source order", func(t *testing.T) {
		out := ApplyFilters(candidates, FilterCriteria{Sort: SortRecommended})
		require.Len(t, out, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
	})

	t.Run("empty input gives empty output", func(t *testing.T) {
		out := ApplyFilters(nil, FilterCriteria{Sort: SortPriceAsc})
		assert.Empty(t, out)
	})
}
