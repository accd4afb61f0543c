package domain

import (
	"encoding/json"
	"fmt"
)

// GeoPoint — координата lng/lat (порядок как в GeoJSON).
type GeoPoint struct {
	Lng float64
	Lat float64
}

// Polygon — замкнутое кольцо, нарисованное пользователем на карте.
// В URL хранится как сериализованный GeoJSON Feature (так его отдает
// инструмент рисования на клиенте), поэтому Parse принимает Feature,
// голую геометрию или просто массив координат.
type Polygon struct {
	Ring []GeoPoint
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates [][][]float64   `json:"coordinates"`
}

type geoJSONFeature struct {
	Type     string           `json:"type"`
	Geometry *geoJSONGeometry `json:"geometry,omitempty"`
	// Поля самой геометрии — на случай, если вместо Feature пришла геометрия.
	Coordinates [][][]float64 `json:"coordinates,omitempty"`
}

// ParsePolygon разбирает сериализованный полигон из query-параметра.
// Любой мусор — это ошибка; вызывающий обязан трактовать ее как
// "пространственный фильтр отсутствует", а не как отказ.
func ParsePolygon(blob string) (*Polygon, error) {
	if blob == "" {
		return nil, fmt.Errorf("empty polygon blob")
	}

	var f geoJSONFeature
	if err := json.Unmarshal([]byte(blob), &f); err != nil {
		// Последний шанс: голое кольцо [[lng,lat],...]
		var ring [][]float64
		if err2 := json.Unmarshal([]byte(blob), &ring); err2 != nil {
			return nil, fmt.Errorf("invalid polygon blob: %w", err)
		}
		return polygonFromRing(ring)
	}

	coords := f.Coordinates
	if f.Geometry != nil {
		coords = f.Geometry.Coordinates
	}
	if len(coords) == 0 || len(coords[0]) == 0 {
		return nil, fmt.Errorf("polygon blob has no coordinates")
	}
	// Берем внешнее кольцо, дырки не поддерживаем.
	return polygonFromRing(coords[0])
}

func polygonFromRing(ring [][]float64) (*Polygon, error) {
	pts := make([]GeoPoint, 0, len(ring))
	for _, pair := range ring {
		if len(pair) < 2 {
			return nil, fmt.Errorf("polygon ring point must have two coordinates")
		}
		pts = append(pts, GeoPoint{Lng: pair[0], Lat: pair[1]})
	}
	// Замыкающую точку (копию первой) не храним.
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("polygon ring needs at least three points")
	}
	return &Polygon{Ring: pts}, nil
}

// Encode сериализует полигон обратно в GeoJSON Feature — тот же формат,
// в котором он пришел из инструмента рисования.
func (p Polygon) Encode() string {
	ring := make([][]float64, 0, len(p.Ring)+1)
	for _, pt := range p.Ring {
		ring = append(ring, []float64{pt.Lng, pt.Lat})
	}
	if len(p.Ring) > 0 {
		first := p.Ring[0]
		ring = append(ring, []float64{first.Lng, first.Lat})
	}
	f := geoJSONFeature{
		Type: "Feature",
		Geometry: &geoJSONGeometry{
			Type:        "Polygon",
			Coordinates: [][][]float64{ring},
		},
	}
	blob, _ := json.Marshal(f)
	return string(blob)
}

// Contains проверяет попадание точки внутрь кольца (ray casting).
// Точки на ребре могут попадать в любую из сторон — для фильтра карты
// это несущественно.
func (p Polygon) Contains(lng, lat float64) bool {
	n := len(p.Ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := p.Ring[i], p.Ring[j]
		if (a.Lat > lat) != (b.Lat > lat) {
			x := (b.Lng-a.Lng)*(lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if lng < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Clone возвращает копию полигона с собственным кольцом.
func (p Polygon) Clone() Polygon {
	ring := make([]GeoPoint, len(p.Ring))
	copy(ring, p.Ring)
	return Polygon{Ring: ring}
}
