package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestDecodeFilters(t *testing.T) {
	t.Run("full query string", func(t *testing.T) {
		values, err := url.ParseQuery("search=sea+view&type=villa,apartment&bedrooms=2,3&baths=2&amenities=pool,gym&location=Marbella&priceMin=100000&priceMax=500000&sizeMin=80&sizeMax=200&sort=price_desc&market=secondary&page=3")
		require.NoError(t, err)

		c := DecodeFilters(values, FilterCriteria{})

		assert.Equal(t, "sea view", c.Search)
		assert.Equal(t, []string{"villa", "apartment"}, c.Types)
		assert.Equal(t, []string{"2", "3"}, c.Bedrooms)
		require.NotNil(t, c.Baths)
		assert.Equal(t, 2, *c.Baths)
		assert.Equal(t, []string{"pool", "gym"}, c.Amenities)
		assert.Equal(t, []string{"Marbella"}, c.Locations)
		require.NotNil(t, c.PriceMin)
		assert.Equal(t, 100000.0, *c.PriceMin)
		require.NotNil(t, c.PriceMax)
		assert.Equal(t, 500000.0, *c.PriceMax)
		assert.Equal(t, SortPriceDesc, c.Sort)
		assert.Equal(t, MarketSecondary, c.Market)
		assert.Equal(t, 3, c.Page)
	})

	t.Run("missing keys fall back to defaults", func(t *testing.T) {
		defaults := DefaultsForView(MarketRent)
		c := DecodeFilters(url.Values{}, defaults)

		assert.Equal(t, MarketRent, c.Market)
		assert.Equal(t, RentTypeLong, c.RentType)
		assert.Equal(t, SortPriceAsc, c.Sort)
		assert.Equal(t, 1, c.Page)
	})

	t.Run("present key overrides default", func(t *testing.T) {
		defaults := DefaultsForView(MarketRent)
		values := url.Values{ParamRentType: {"short"}}
		c := DecodeFilters(values, defaults)
		assert.Equal(t, RentTypeShort, c.RentType)
	})

	t.Run("non-numeric and non-positive bounds are dropped", func(t *testing.T) {
		values := url.Values{
			ParamPriceMin: {"abc"},
			ParamPriceMax: {"0"},
			ParamSizeMin:  {"-5"},
			ParamBaths:    {"oops"},
		}
		c := DecodeFilters(values, FilterCriteria{})
		assert.Nil(t, c.PriceMin)
		assert.Nil(t, c.PriceMax)
		assert.Nil(t, c.SizeMin)
		assert.Nil(t, c.Baths)
	})

	t.Run("malformed polygon is silently dropped", func(t *testing.T) {
		values := url.Values{ParamPolygon: {"{not json"}}
		c := DecodeFilters(values, FilterCriteria{})
		assert.Nil(t, c.Polygon)
	})

	t.Run("invalid page falls back to first", func(t *testing.T) {
		for _, raw := range []string{"0", "-2", "abc", ""} {
			c := DecodeFilters(url.Values{ParamPage: {raw}}, FilterCriteria{})
			assert.Equal(t, 1, c.Page, "page=%q", raw)
		}
	})

	t.Run("list values are trimmed and deduplicated", func(t *testing.T) {
		values := url.Values{ParamTypes: {" villa , apartment ,villa,, "}}
		c := DecodeFilters(values, FilterCriteria{})
		assert.Equal(t, []string{"villa", "apartment"}, c.Types)
	})
}

func TestEncodeQuery(t *testing.T) {
	t.Run("empty facets are omitted", func(t *testing.T) {
		c := FilterCriteria{Market: MarketNewBuilding, Page: 7}
		values := c.EncodeQuery()

		assert.Equal(t, MarketNewBuilding, values.Get(ParamMarket))
		assert.False(t, values.Has(ParamSearch))
		assert.False(t, values.Has(ParamTypes))
		assert.False(t, values.Has(ParamPriceMin))
		assert.False(t, values.Has(ParamPolygon))
	})

	t.Run("page is always reset to first", func(t *testing.T) {
		c := FilterCriteria{Market: MarketSecondary, Page: 5}
		assert.Equal(t, "1", c.EncodeQuery().Get(ParamPage))
	})

	t.Run("lists are comma joined", func(t *testing.T) {
		c := FilterCriteria{Types: []string{"villa", "apartment"}, Amenities: []string{"pool"}}
		values := c.EncodeQuery()
		assert.Equal(t, "villa,apartment", values.Get(ParamTypes))
		assert.Equal(t, "pool", values.Get(ParamAmenities))
	})

	t.Run("decode-encode round trip is stable", func(t *testing.T) {
		c := FilterCriteria{
			Search:    "golf",
			Types:     []string{"villa"},
			Bedrooms:  []string{"studio", "3"},
			Baths:     intPtr(2),
			Amenities: []string{"pool", "garden"},
			Locations: []string{"Estepona"},
			PriceMin:  floatPtr(250000),
			SizeMax:   floatPtr(300),
			Sort:      SortSizeAsc,
			Market:    MarketNewBuilding,
			Page:      1,
		}

		decoded := DecodeFilters(c.EncodeQuery(), FilterCriteria{})
		assert.Equal(t, c, decoded)

		// Повторная итерация не должна ничего менять.
		again := DecodeFilters(decoded.EncodeQuery(), FilterCriteria{})
		assert.Equal(t, decoded, again)
	})

	t.Run("polygon survives the round trip", func(t *testing.T) {
		poly := &Polygon{Ring: []GeoPoint{{Lng: -4.9, Lat: 36.5}, {Lng: -4.8, Lat: 36.5}, {Lng: -4.85, Lat: 36.6}}}
		c := FilterCriteria{Polygon: poly, Page: 1}

		decoded := DecodeFilters(c.EncodeQuery(), FilterCriteria{})
		require.NotNil(t, decoded.Polygon)
		assert.Equal(t, poly.Ring, decoded.Polygon.Ring)
	})
}

func TestSetPageQuery(t *testing.T) {
	values, err := url.ParseQuery("market=rent&rentType=short&utm_source=mail&page=1")
	require.NoError(t, err)

	paged := SetPageQuery(values, 4)

	assert.Equal(t, "4", paged.Get(ParamPage))
	assert.Equal(t, "rent", paged.Get(ParamMarket))
	assert.Equal(t, "short", paged.Get(ParamRentType))
	// Нераспознанные ключи переживают перелистывание.
	assert.Equal(t, "mail", paged.Get("utm_source"))

	// Исходная карта не мутируется.
	assert.Equal(t, "1", values.Get(ParamPage))

	t.Run("page below one clamps to one", func(t *testing.T) {
		assert.Equal(t, "1", SetPageQuery(values, 0).Get(ParamPage))
	})
}
