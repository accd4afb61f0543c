package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// GetNewsUseCase — опубликованные новости, свежие первыми.
type GetNewsUseCase interface {
	Execute(ctx context.Context) ([]domain.NewsArticle, error)
}

type GetNewsArticleUseCase interface {
	Execute(ctx context.Context, id string) (*domain.NewsArticle, error)
}
