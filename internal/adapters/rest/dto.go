package rest

import (
	"time"

	"catalog-service/internal/core/domain"
)

// PropertyCardResponse — карточка объекта в ответах API.
type PropertyCardResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Market       string   `json:"market"`
	RentType     string   `json:"rent_type,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Price        *float64 `json:"price"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	Size         *float64 `json:"size"`
	Town         string   `json:"town,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Images       []string `json:"images,omitempty"`
	Latitude     *float64 `json:"lat,omitempty"`
	Longitude    *float64 `json:"lng,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
	IsFavorite   bool     `json:"is_favorite"`
}

// PaginatedPropertiesResponse — страница результатов поиска.
type PaginatedPropertiesResponse struct {
	Data       []PropertyCardResponse `json:"data"`
	Total      int64                  `json:"totalItems"`
	Page       int                    `json:"currentPage"`
	TotalPages int                    `json:"totalPages"`
	PerPage    int                    `json:"itemsPerPage"`
	// Query — каноническая query-строка примененных фильтров: фронтенд
	// кладет ее в адресную строку, чтобы ссылка была shareable.
	Query string `json:"query"`
}

// MapClusterResponse — кластер точек карты.
type MapClusterResponse struct {
	Geohash     string   `json:"geohash"`
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lng"`
	Count       int      `json:"count"`
	PropertyIDs []string `json:"property_ids"`
}

// FacetOptionsResponse — справочники для панели фильтров.
type FacetOptionsResponse struct {
	Locations []string `json:"locations"`
	Amenities []string `json:"amenities"`
}

// NewsArticleResponse — новость.
type NewsArticleResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ToggleFavoriteRequest — тело POST /favorites/toggle.
type ToggleFavoriteRequest struct {
	PropertyID string `json:"property_id"`
}

// ToggleFavoriteResponse — результат переключения.
type ToggleFavoriteResponse struct {
	PropertyID string `json:"property_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// FavoriteIdsResponse — идентификаторы избранного в порядке добавления.
type FavoriteIdsResponse struct {
	IDs []string `json:"ids"`
}

// ShareLinkResponse — шаринговая ссылка на список избранного.
type ShareLinkResponse struct {
	URL string `json:"url"`
}

func toPropertyCardResponse(p domain.Property, isFavorite bool) PropertyCardResponse {
	card := PropertyCardResponse{
		ID:           p.ID,
		Title:        p.Title,
		Market:       p.Market,
		RentType:     p.RentType,
		PropertyType: p.PropertyType,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Size:         p.Size,
		Town:         p.Town,
		Amenities:    p.Amenities,
		Images:       p.Images,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		IsFavorite:   isFavorite,
	}
	if !p.CreatedAt.IsZero() {
		card.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	return card
}

func toNewsArticleResponse(a domain.NewsArticle) NewsArticleResponse {
	resp := NewsArticleResponse{
		ID:       a.ID,
		Title:    a.Title,
		Content:  a.Content,
		ImageURL: a.ImageURL,
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
