package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// LikedPropertiesRequest — параметры страницы "понравившиеся".
// SharedIDs приходят из шаринговой ссылки и имеют приоритет над
// избранным самого клиента. MarketTab ("", new-building, secondary,
// rent) — вкладка-фильтр по рынку.
type LikedPropertiesRequest struct {
	ClientID  string
	SharedIDs []string
	MarketTab string
	Limit     int
	Page      int
}

type GetLikedPropertiesUseCase interface {
	Execute(ctx context.Context, req LikedPropertiesRequest) (*domain.PaginatedProperties, error)
}
