package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Контракт query-строки. Ключи — внешний интерфейс каталога, менять их
// нельзя без миграции сохраненных ссылок.
const (
	ParamSearch    = "search"
	ParamTypes     = "type"
	ParamBedrooms  = "bedrooms"
	ParamBaths     = "baths"
	ParamAmenities = "amenities"
	ParamPriceMin  = "priceMin"
	ParamPriceMax  = "priceMax"
	ParamSizeMin   = "sizeMin"
	ParamSizeMax   = "sizeMax"
	ParamSort      = "sort"
	ParamLocations = "location"
	ParamRentType  = "rentType"
	ParamMarket    = "market"
	ParamPolygon   = "polygon"
	ParamIDs       = "ids"
	ParamPage      = "page"
)

// DecodeFilters восстанавливает критерии из query-строки. Отсутствующий
// ключ получает значение из defaults (у каждой страницы каталога свои),
// нераспознанные ключи игнорируются. Битый полигон молча отбрасывается:
// пользователь с испорченной ссылкой должен увидеть результаты без
// пространственного фильтра, а не ошибку.
func DecodeFilters(values url.Values, defaults FilterCriteria) FilterCriteria {
	c := defaults.Clone()

	if values.Has(ParamSearch) {
		c.Search = values.Get(ParamSearch)
	}
	if values.Has(ParamTypes) {
		c.Types = splitList(values.Get(ParamTypes))
	}
	if values.Has(ParamBedrooms) {
		c.Bedrooms = splitList(values.Get(ParamBedrooms))
	}
	if values.Has(ParamBaths) {
		c.Baths = parseOptionalInt(values.Get(ParamBaths))
	}
	if values.Has(ParamAmenities) {
		c.Amenities = splitList(values.Get(ParamAmenities))
	}
	if values.Has(ParamLocations) {
		c.Locations = splitList(values.Get(ParamLocations))
	}
	if values.Has(ParamPriceMin) {
		c.PriceMin = parseOptionalFloat(values.Get(ParamPriceMin))
	}
	if values.Has(ParamPriceMax) {
		c.PriceMax = parseOptionalFloat(values.Get(ParamPriceMax))
	}
	if values.Has(ParamSizeMin) {
		c.SizeMin = parseOptionalFloat(values.Get(ParamSizeMin))
	}
	if values.Has(ParamSizeMax) {
		c.SizeMax = parseOptionalFloat(values.Get(ParamSizeMax))
	}
	if values.Has(ParamSort) {
		c.Sort = values.Get(ParamSort)
	}
	if values.Has(ParamRentType) {
		c.RentType = values.Get(ParamRentType)
	}
	if values.Has(ParamMarket) {
		c.Market = values.Get(ParamMarket)
	}
	if values.Has(ParamPolygon) {
		if poly, err := ParsePolygon(values.Get(ParamPolygon)); err == nil {
			c.Polygon = poly
		} else {
			c.Polygon = nil
		}
	}
	if values.Has(ParamIDs) {
		c.IDs = splitList(values.Get(ParamIDs))
	}

	c.Page = parsePage(values.Get(ParamPage))
	return c
}

// EncodeQuery сериализует критерии в query-строку. Пустые строки, пустые
// списки и незаданные числовые границы не попадают в URL вовсе. Страница
// принудительно сбрасывается на первую: смена любого фасета обнуляет
// пагинацию. Для перелистывания есть SetPageQuery.
func (c FilterCriteria) EncodeQuery() url.Values {
	values := url.Values{}

	setIfNotEmpty(values, ParamSearch, c.Search)
	setList(values, ParamTypes, c.Types)
	setList(values, ParamBedrooms, c.Bedrooms)
	if c.Baths != nil {
		values.Set(ParamBaths, strconv.Itoa(*c.Baths))
	}
	setList(values, ParamAmenities, c.Amenities)
	setList(values, ParamLocations, c.Locations)
	setOptionalFloat(values, ParamPriceMin, c.PriceMin)
	setOptionalFloat(values, ParamPriceMax, c.PriceMax)
	setOptionalFloat(values, ParamSizeMin, c.SizeMin)
	setOptionalFloat(values, ParamSizeMax, c.SizeMax)
	setIfNotEmpty(values, ParamSort, c.Sort)
	setIfNotEmpty(values, ParamRentType, c.RentType)
	setIfNotEmpty(values, ParamMarket, c.Market)
	if c.Polygon != nil {
		values.Set(ParamPolygon, c.Polygon.Encode())
	}
	setList(values, ParamIDs, c.IDs)

	values.Set(ParamPage, "1")
	return values
}

// SetPageQuery меняет только номер страницы, сохраняя остальные ключи
// как есть (включая нераспознанные).
func SetPageQuery(values url.Values, page int) url.Values {
	out := url.Values{}
	for k, vs := range values {
		out[k] = append([]string(nil), vs...)
	}
	if page < 1 {
		page = 1
	}
	out.Set(ParamPage, strconv.Itoa(page))
	return out
}

// splitList разбирает comma-joined список: пробелы по краям обрезаются,
// пустые элементы и дубликаты отбрасываются, порядок первых вхождений
// сохраняется (он определяет порядок чипов в UI).
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Нечисловое или неположительное значение означает "граница не задана".
func parseOptionalFloat(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func parseOptionalInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func parsePage(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

func setIfNotEmpty(values url.Values, key, val string) {
	if val != "" {
		values.Set(key, val)
	}
}

func setList(values url.Values, key string, list []string) {
	if len(list) > 0 {
		values.Set(key, strings.Join(list, ","))
	}
}

func setOptionalFloat(values url.Values, key string, v *float64) {
	if v != nil {
		values.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
