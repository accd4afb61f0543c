package domain

import "sort"

// SortProperties упорядочивает список на месте согласно выбранной
// сортировке. Отсутствующая цена/площадь считается нулем, отсутствующая
// дата — эпохой: такие объекты уходят в конец "дорогих" выборок, но не
// исчезают. "recommended" сохраняет порядок источника.
func SortProperties(props []Property, sortOrder string) {
	price := func(p Property) float64 {
		if p.Price == nil {
			return 0
		}
		return *p.Price
	}
	size := func(p Property) float64 {
		if p.Size == nil {
			return 0
		}
		return *p.Size
	}

	switch sortOrder {
	case SortPriceAsc:
		sort.SliceStable(props, func(i, j int) bool { return price(props[i]) < price(props[j]) })
	case SortPriceDesc:
		sort.SliceStable(props, func(i, j int) bool { return price(props[i]) > price(props[j]) })
	case SortSizeAsc:
		sort.SliceStable(props, func(i, j int) bool { return size(props[i]) < size(props[j]) })
	case SortSizeDesc:
		sort.SliceStable(props, func(i, j int) bool { return size(props[i]) > size(props[j]) })
	case SortDateDesc:
		sort.SliceStable(props, func(i, j int) bool { return props[i].CreatedAt.After(props[j].CreatedAt) })
	default:
		// recommended и все нераспознанные значения — порядок источника.
	}
}
