package usecase

import (
	"context"
	"fmt"
	"sort"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetNewsUseCase struct {
	source port.NewsSourcePort
}

func NewGetNewsUseCase(source port.NewsSourcePort) *GetNewsUseCase {
	return &GetNewsUseCase{source: source}
}

// Execute возвращает опубликованные новости, свежие первыми.
// Отказ upstream — пустая лента.
func (uc *GetNewsUseCase) Execute(ctx context.Context) ([]domain.NewsArticle, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetNews"})

	ucLogger.Info("Use case started", nil)

	articles, err := uc.source.GetNews(ctx)
	if err != nil {
		ucLogger.Error("Failed to get news, returning empty feed", err, nil)
		return []domain.NewsArticle{}, nil
	}

	published := make([]domain.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if a.Published {
			published = append(published, a)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].CreatedAt.After(published[j].CreatedAt)
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"articles": len(published)})
	return published, nil
}

type GetNewsArticleUseCase struct {
	source port.NewsSourcePort
}

func NewGetNewsArticleUseCase(source port.NewsSourcePort) *GetNewsArticleUseCase {
	return &GetNewsArticleUseCase{source: source}
}

func (uc *GetNewsArticleUseCase) Execute(ctx context.Context, id string) (*domain.NewsArticle, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetNewsArticle",
		"news_id":  id,
	})

	ucLogger.Info("Use case started", nil)

	article, err := uc.source.GetNewsByID(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to get news article", err, nil)
		return nil, fmt.Errorf("failed to get news article %s: %w", id, err)
	}
	if article == nil {
		ucLogger.Warn("News article not found", nil)
		return nil, nil
	}

	ucLogger.Info("Use case finished successfully", nil)
	return article, nil
}
