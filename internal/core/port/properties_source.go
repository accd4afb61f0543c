package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// PropertiesSourcePort — контракт адаптера, ходящего в upstream API за
// объектами. Ядро не знает, как устроен его wire-формат: адаптер обязан
// вернуть доменные сущности или ошибку.
type PropertiesSourcePort interface {
	// FindProperties — постраничный поиск. Критерии кодируются в query
	// самим адаптером; фильтрации upstream ядро доверяет.
	FindProperties(ctx context.Context, criteria domain.FilterCriteria, limit int) (*domain.PaginatedProperties, error)

	// GetPropertyByID возвращает один объект или nil, если он не найден.
	GetPropertyByID(ctx context.Context, id string) (*domain.Property, error)

	// FindForMap — облегченная проекция для карты, фильтруется upstream,
	// но ядро перепроверяет ее локальным конвейером.
	FindForMap(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error)

	// GetFacetOptions — справочники локаций и удобств для панели фильтров.
	GetFacetOptions(ctx context.Context) (*domain.FacetOptions, error)
}

// NewsSourcePort — контракт адаптера для новостной ленты upstream.
type NewsSourcePort interface {
	GetNews(ctx context.Context) ([]domain.NewsArticle, error)
	GetNewsByID(ctx context.Context, id string) (*domain.NewsArticle, error)
}
