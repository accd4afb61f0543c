package domain

import "time"

// Рынки, с которыми работает каталог. Upstream отдает "off-plan"/"resale",
// клиент каталога оперирует значениями "new-building"/"secondary" — маппинг
// выполняется в адаптере API-клиента.
const (
	MarketNewBuilding = "new-building"
	MarketSecondary   = "secondary"
	MarketRent        = "rent"
)

// Сроки аренды (применимы только к рынку rent).
const (
	RentTypeLong  = "long"
	RentTypeShort = "short"
)

// Property — карточка объекта, как ее отдает upstream API.
// Ядро не владеет этой сущностью: только фильтрует и сортирует.
// Отсутствующие поля моделируются указателями.
type Property struct {
	ID           string
	Title        string
	Market       string
	RentType     string
	PropertyType string
	Price        *float64
	Bedrooms     *int
	Bathrooms    *int
	// Площадь в м² (built_area у upstream).
	Size      *float64
	Town      string
	Amenities []string
	Images    []string
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
}

// PaginatedProperties — страница результатов поиска.
type PaginatedProperties struct {
	Items        []Property
	TotalCount   int64
	CurrentPage  int
	TotalPages   int
	ItemsPerPage int
}

// FacetOptions — справочники для панели фильтров (локации и удобства).
type FacetOptions struct {
	Locations []string
	Amenities []string
}

// NewsArticle — новость из upstream API. Непубличные статьи ядро отбрасывает.
type NewsArticle struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	Published bool
	CreatedAt time.Time
}

// MapCluster — группа объектов карты, свернутая в одну geohash-ячейку.
// PropertyIDs позволяют раскрыть кластер через explicit-ids запрос.
type MapCluster struct {
	Geohash     string
	Latitude    float64
	Longitude   float64
	Count       int
	PropertyIDs []string
}
