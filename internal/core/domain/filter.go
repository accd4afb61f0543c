package domain

// Значения сортировки, принимаемые ключом `sort`.
const (
	SortRecommended = "recommended"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortSizeAsc     = "size_asc"
	SortSizeDesc    = "size_desc"
	SortDateDesc    = "date_desc"
)

// Спальни: "studio" — ноль спален, "6" — открытая корзина "6+"
// (подходит любой объект с шестью и более спальнями).
const (
	BedroomsStudio        = "studio"
	bedroomsOpenThreshold = 6
)

// FilterCriteria — полный набор фасетов поиска. Нулевое значение каждого
// поля означает "фасет не активен". Числовые границы — указатели:
// nil = граница не задана.
type FilterCriteria struct {
	Search    string
	Types     []string
	Bedrooms  []string
	Baths     *int
	Amenities []string
	Locations []string
	PriceMin  *float64
	PriceMax  *float64
	SizeMin   *float64
	SizeMax   *float64
	Sort      string
	RentType  string
	Market    string
	Polygon   *Polygon
	// IDs — explicit-ids override: если список не пуст, все остальные
	// фасеты игнорируются (шаринг избранного, раскрытие кластера).
	IDs  []string
	Page int
}

// HasExplicitIDs сообщает, активен ли режим явного списка идентификаторов.
func (c FilterCriteria) HasExplicitIDs() bool {
	return len(c.IDs) > 0
}

// Clone возвращает глубокую копию критериев (слайсы и указатели не разделяются).
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	out.Types = cloneStrings(c.Types)
	out.Bedrooms = cloneStrings(c.Bedrooms)
	out.Amenities = cloneStrings(c.Amenities)
	out.Locations = cloneStrings(c.Locations)
	out.IDs = cloneStrings(c.IDs)
	out.Baths = cloneInt(c.Baths)
	out.PriceMin = cloneFloat(c.PriceMin)
	out.PriceMax = cloneFloat(c.PriceMax)
	out.SizeMin = cloneFloat(c.SizeMin)
	out.SizeMax = cloneFloat(c.SizeMax)
	if c.Polygon != nil {
		p := c.Polygon.Clone()
		out.Polygon = &p
	}
	return out
}

// DefaultsForView возвращает стартовые фильтры страницы каталога.
// Страница аренды по умолчанию показывает долгосрочную аренду,
// страницы продажи сортируются по возрастанию цены.
func DefaultsForView(market string) FilterCriteria {
	c := FilterCriteria{Market: market, Sort: SortPriceAsc, Page: 1}
	if market == MarketRent {
		c.RentType = RentTypeLong
	}
	return c
}

// MapViewDefaults — стартовые фильтры страницы карты: селектор рынка
// включен, сортировка не навязывается.
func MapViewDefaults() FilterCriteria {
	return FilterCriteria{
		Market:   MarketNewBuilding,
		Sort:     SortRecommended,
		RentType: RentTypeLong,
		Page:     1,
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneInt(in *int) *int {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneFloat(in *float64) *float64 {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
