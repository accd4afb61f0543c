package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// MatchesFilters проверяет объект против всех активных фасетов.
// Конъюнктивный конвейер с коротким замыканием: порядок предикатов
// выбран от дешевых отсевов к дорогим, на корректность он не влияет.
//
// Особые правила:
//   - explicit-ids полностью заменяет остальные фасеты;
//   - ценовой диапазон не отсеивает объекты без цены;
//   - amenities — AND-семантика, остальные мультиселекты — OR.
func MatchesFilters(p Property, c FilterCriteria) bool {
	if c.HasExplicitIDs() {
		return containsString(c.IDs, p.ID)
	}

	if c.Polygon != nil {
		if p.Latitude == nil || p.Longitude == nil {
			return false
		}
		if !c.Polygon.Contains(*p.Longitude, *p.Latitude) {
			return false
		}
	}

	if c.Market != "" && p.Market != "" && p.Market != c.Market {
		return false
	}

	if c.Market == MarketRent && c.RentType != "" && p.RentType != "" {
		if p.RentType != c.RentType {
			return false
		}
	}

	if c.Search != "" {
		if !containsFold(p.Title, c.Search) {
			return false
		}
	}

	if len(c.Types) > 0 {
		matched := false
		for _, t := range c.Types {
			if containsFold(p.PropertyType, t) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if p.Price != nil {
		if c.PriceMin != nil && *p.Price < *c.PriceMin {
			return false
		}
		if c.PriceMax != nil && *p.Price > *c.PriceMax {
			return false
		}
	}

	if len(c.Bedrooms) > 0 {
		if p.Bedrooms == nil || !matchesBedrooms(*p.Bedrooms, c.Bedrooms) {
			return false
		}
	}

	if c.SizeMin != nil || c.SizeMax != nil {
		if p.Size != nil {
			if c.SizeMin != nil && *p.Size < *c.SizeMin {
				return false
			}
			if c.SizeMax != nil && *p.Size > *c.SizeMax {
				return false
			}
		}
	}

	if len(c.Locations) > 0 {
		matched := false
		for _, loc := range c.Locations {
			// Двунаправленное вхождение: "Marbella" находит
			// "Marbella East", а "Puerto Banus Marina" — "Puerto Banus".
			if containsFold(p.Town, loc) || containsFold(loc, p.Town) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(c.Amenities) > 0 {
		for _, a := range c.Amenities {
			if !containsString(p.Amenities, a) {
				return false
			}
		}
	}

	return true
}

// ApplyFilters прогоняет кандидатов через конвейер и сортирует результат.
// Пустой вход дает пустой результат, не ошибку.
func ApplyFilters(candidates []Property, c FilterCriteria) []Property {
	out := make([]Property, 0, len(candidates))
	for _, p := range candidates {
		if MatchesFilters(p, c) {
			out = append(out, p)
		}
	}
	SortProperties(out, c.Sort)
	return out
}

// matchesBedrooms — OR по выбранным значениям. "studio" соответствует нулю
// спален; значение открытой корзины ("6" или любое с суффиксом "+")
// дополнительно матчит все объекты с количеством не меньше порога.
func matchesBedrooms(beds int, selected []string) bool {
	for _, s := range selected {
		if s == BedroomsStudio {
			if beds == 0 {
				return true
			}
			continue
		}
		open := strings.HasSuffix(s, "+")
		n, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil {
			continue
		}
		if n >= bedroomsOpenThreshold {
			open = true
		}
		if open {
			if beds >= n {
				return true
			}
		} else if beds == n {
			return true
		}
	}
	return false
}

// containsFold — регистронезависимое вхождение подстроки с Unicode-фолдингом
// (в названиях локаций встречаются испанские буквы).
func containsFold(haystack, needle string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(haystack), folder.String(needle))
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
