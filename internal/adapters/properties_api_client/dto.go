package properties_api_client

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"catalog-service/internal/core/domain"
)

// Upstream не всегда последователен в типах: id бывает числом и строкой,
// координаты — числом и строкой, картинки — строками и объектами.
// Гибкие типы ниже принимают оба варианта, маппер нормализует.

// flexString принимает строку или число.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexFloat принимает число, числовую строку или null.
type flexFloat struct {
	Val *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		f.Val = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f.Val = nil
			return nil
		}
		f.Val = &v
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Val = &v
	return nil
}

// imageEntry принимает "url" или {"image_url": "..."}.
type imageEntry string

func (i *imageEntry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ImageURL string `json:"image_url"`
			URL      string `json:"url"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.ImageURL != "" {
			*i = imageEntry(obj.ImageURL)
		} else {
			*i = imageEntry(obj.URL)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*i = imageEntry(s)
	return nil
}

type locationDTO struct {
	Name        string    `json:"name"`
	Coordinates []float64 `json:"coordinates"`
}

type propertyDTO struct {
	ID              flexString   `json:"id"`
	Title           string       `json:"title"`
	DevelopmentName string       `json:"development_name"`
	Name            string       `json:"name"`
	Market          string       `json:"market"`
	RentType        string       `json:"rent_type"`
	PropertyType    string       `json:"property_type"`
	Type            string       `json:"type"`
	Price           *float64     `json:"price"`
	Bedrooms        *int         `json:"bedrooms"`
	Beds            *int         `json:"beds"`
	Bathrooms       *int         `json:"bathrooms"`
	Baths           *int         `json:"baths"`
	BuiltArea       *float64     `json:"built_area"`
	TotalArea       *float64     `json:"total_area"`
	Size            *float64     `json:"size"`
	Town            string       `json:"town"`
	Address         string       `json:"address"`
	Location        *locationDTO `json:"location"`
	Amenities       []string     `json:"amenities"`
	Images          []imageEntry `json:"images"`
	Lat             flexFloat    `json:"lat"`
	Latitude        flexFloat    `json:"latitude"`
	Lng             flexFloat    `json:"lng"`
	Longitude       flexFloat    `json:"longitude"`
	CreatedAt       string       `json:"created_at"`
}

type paginatedResponse struct {
	Data        []propertyDTO `json:"data"`
	TotalItems  int64         `json:"totalItems"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

type mapResponse struct {
	Data []json.RawMessage `json:"data"`
}

type newsDTO struct {
	ID        flexString `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"image_url"`
	Published bool       `json:"published"`
	CreatedAt string     `json:"created_at"`
}

// toDomain нормализует DTO в доменную сущность: цепочки фолбэков
// повторяют то, что реально присылает upstream в разных коллекциях.
func (dto propertyDTO) toDomain() domain.Property {
	p := domain.Property{
		ID:       string(dto.ID),
		RentType: dto.RentType,
	}

	p.Title = firstNonEmpty(dto.Title, dto.DevelopmentName, dto.Name)
	p.Market = normalizeMarket(firstNonEmpty(dto.Market, dto.Type))
	p.PropertyType = firstNonEmpty(dto.PropertyType, dto.Type)
	p.Price = dto.Price

	if dto.Bedrooms != nil {
		p.Bedrooms = dto.Bedrooms
	} else {
		p.Bedrooms = dto.Beds
	}
	if dto.Bathrooms != nil {
		p.Bathrooms = dto.Bathrooms
	} else {
		p.Bathrooms = dto.Baths
	}

	switch {
	case dto.BuiltArea != nil:
		p.Size = dto.BuiltArea
	case dto.TotalArea != nil:
		p.Size = dto.TotalArea
	default:
		p.Size = dto.Size
	}

	p.Town = dto.Town
	if p.Town == "" && dto.Location != nil {
		p.Town = dto.Location.Name
	}
	if p.Town == "" {
		p.Town = dto.Address
	}

	p.Amenities = dto.Amenities
	for _, img := range dto.Images {
		if img != "" {
			p.Images = append(p.Images, string(img))
		}
	}

	p.Latitude = firstFloat(dto.Lat, dto.Latitude)
	p.Longitude = firstFloat(dto.Lng, dto.Longitude)
	if (p.Latitude == nil || p.Longitude == nil) && dto.Location != nil && len(dto.Location.Coordinates) >= 2 {
		lng, lat := dto.Location.Coordinates[0], dto.Location.Coordinates[1]
		p.Longitude = &lng
		p.Latitude = &lat
	}

	if dto.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
			p.CreatedAt = ts
		}
	}

	return p
}

func (dto newsDTO) toDomain() domain.NewsArticle {
	a := domain.NewsArticle{
		ID:        string(dto.ID),
		Title:     dto.Title,
		Content:   dto.Content,
		ImageURL:  dto.ImageURL,
		Published: dto.Published,
	}
	if dto.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
			a.CreatedAt = ts
		}
	}
	return a
}

// normalizeMarket переводит значения upstream в принятые каталогом:
// "off-plan" -> "new-building", "resale" -> "secondary".
func normalizeMarket(market string) string {
	switch market {
	case "off-plan":
		return domain.MarketNewBuilding
	case "resale":
		return domain.MarketSecondary
	default:
		return market
	}
}

// denormalizeMarket — обратный маппинг для исходящих запросов.
func denormalizeMarket(market string) string {
	switch market {
	case domain.MarketNewBuilding:
		return "off-plan"
	case domain.MarketSecondary:
		return "resale"
	default:
		return market
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(values ...flexFloat) *float64 {
	for _, v := range values {
		if v.Val != nil {
			return v.Val
		}
	}
	return nil
}
