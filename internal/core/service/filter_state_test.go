package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/core/domain"
)

func newRentState() *FilterState {
	return NewFilterState(domain.DefaultsForView(domain.MarketRent), nil)
}

func TestFilterStateDefaults(t *testing.T) {
	state := newRentState()

	c := state.Filters()
	assert.Equal(t, domain.MarketRent, c.Market)
	assert.Equal(t, domain.RentTypeLong, c.RentType)
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, uint64(0), state.Version())
}

func TestFilterStateSetFilters(t *testing.T) {
	state := newRentState()

	c := state.Filters()
	c.Types = []string{"villa"}
	c.Page = 9

	v := state.SetFilters(c)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, []string{"villa"}, state.Filters().Types)
	// Любая смена фильтров возвращает на первую страницу.
	assert.Equal(t, 1, state.Page())
}

func TestFilterStateSetPage(t *testing.T) {
	state := newRentState()
	state.SyncFromURL("market=rent&rentType=short&utm_source=mail")

	v := state.SetPage(3)
	assert.Equal(t, uint64(2), v)
	assert.Equal(t, 3, state.Page())

	// Перелистывание не трогает остальные ключи, включая нераспознанные.
	assert.Contains(t, state.EncodedQuery(), "utm_source=mail")
	assert.Equal(t, domain.RentTypeShort, state.Filters().RentType)
}

func TestFilterStateClearFilters(t *testing.T) {
	state := newRentState()

	c := state.Filters()
	c.Types = []string{"villa"}
	c.Amenities = []string{"pool"}
	c.Locations = []string{"Marbella"}
	c.RentType = domain.RentTypeShort
	state.SetFilters(c)

	state.ClearFilters()

	cleared := state.Filters()
	assert.Empty(t, cleared.Types)
	assert.Empty(t, cleared.Amenities)
	assert.Empty(t, cleared.Locations)
	assert.Nil(t, cleared.Polygon)
	// Скалярные дефолты страницы переживают сброс.
	assert.Equal(t, domain.MarketRent, cleared.Market)
	assert.Equal(t, domain.RentTypeLong, cleared.RentType)
	assert.Equal(t, domain.SortPriceAsc, cleared.Sort)
}

func TestFilterStateSyncFromURL(t *testing.T) {
	state := newRentState()

	t.Run("valid query replaces state", func(t *testing.T) {
		v := state.SyncFromURL("market=rent&type=apartment&page=2")
		assert.Equal(t, uint64(1), v)
		assert.Equal(t, []string{"apartment"}, state.Filters().Types)
		assert.Equal(t, 2, state.Page())
	})

	t.Run("malformed query keeps parsable part", func(t *testing.T) {
		state.SyncFromURL("type=villa&bad=%zz")
		assert.Equal(t, []string{"villa"}, state.Filters().Types)
	})
}

func TestFilterStateIsCurrent(t *testing.T) {
	state := newRentState()

	v1 := state.SetPage(2)
	require.True(t, state.IsCurrent(v1))

	v2 := state.SetPage(3)
	assert.False(t, state.IsCurrent(v1), "поздний ответ под старой версией должен отбрасываться")
	assert.True(t, state.IsCurrent(v2))
}

func TestFilterStateSubscribe(t *testing.T) {
	state := newRentState()

	var gotVersions []uint64
	var lastCriteria domain.FilterCriteria
	state.Subscribe(func(c domain.FilterCriteria, v uint64) {
		gotVersions = append(gotVersions, v)
		lastCriteria = c
	})

	c := state.Filters()
	c.Search = "golf"
	state.SetFilters(c)
	state.SetPage(2)

	require.Equal(t, []uint64{1, 2}, gotVersions)
	assert.Equal(t, "golf", lastCriteria.Search)
	assert.Equal(t, 2, lastCriteria.Page)
}
