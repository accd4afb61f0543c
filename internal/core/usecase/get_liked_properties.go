package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"catalog-service/internal/core/service"
)

type GetLikedPropertiesUseCase struct {
	favorites *service.FavoritesStore
	source    port.PropertiesSourcePort
}

func NewGetLikedPropertiesUseCase(favorites *service.FavoritesStore, source port.PropertiesSourcePort) *GetLikedPropertiesUseCase {
	return &GetLikedPropertiesUseCase{favorites: favorites, source: source}
}

// Execute собирает страницу "понравившиеся". Идентификаторы берутся из
// шаринговой ссылки (приоритет) или из избранного клиента, карточки
// обогащаются через upstream по explicit ids.
func (uc *GetLikedPropertiesUseCase) Execute(ctx context.Context, req usecases_port.LikedPropertiesRequest) (*domain.PaginatedProperties, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetLikedProperties",
		"client_id":  req.ClientID,
		"shared":     len(req.SharedIDs) > 0,
		"market_tab": req.MarketTab,
	})

	ucLogger.Info("Use case started", nil)

	if req.Limit <= 0 {
		req.Limit = defaultPageSize
	}
	if req.Page < 1 {
		req.Page = 1
	}

	ids := req.SharedIDs
	if len(ids) == 0 {
		ids = uc.favorites.All(ctx, req.ClientID)
	}
	if len(ids) == 0 {
		ucLogger.Info("No liked properties", nil)
		return emptyPage(req.Page, req.Limit), nil
	}

	// Шаг 1: тянем все карточки одним explicit-ids запросом.
	fetched, err := uc.source.FindProperties(ctx, domain.FilterCriteria{IDs: ids, Page: 1}, len(ids))
	if err != nil {
		ucLogger.Error("Failed to enrich liked IDs from upstream", err, nil)
		return emptyPage(req.Page, req.Limit), nil
	}

	// Шаг 2: восстанавливаем порядок добавления — upstream его не
	// гарантирует, а правильный порядок известен из списка ids.
	byID := make(map[string]domain.Property, len(fetched.Items))
	for _, p := range fetched.Items {
		byID[p.ID] = p
	}
	ordered := make([]domain.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	// Шаг 3: вкладка рынка.
	if req.MarketTab != "" {
		filtered := ordered[:0]
		for _, p := range ordered {
			if p.Market == req.MarketTab {
				filtered = append(filtered, p)
			}
		}
		ordered = filtered
	}

	// Шаг 4: пагинация поверх уже упорядоченного списка.
	total := len(ordered)
	start := (req.Page - 1) * req.Limit
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	result := &domain.PaginatedProperties{
		Items:        append([]domain.Property{}, ordered[start:end]...),
		TotalCount:   int64(total),
		CurrentPage:  req.Page,
		TotalPages:   (total + req.Limit - 1) / req.Limit,
		ItemsPerPage: req.Limit,
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_liked":   total,
		"items_on_page": len(result.Items),
	})
	return result, nil
}
