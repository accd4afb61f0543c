package usecase

import (
	"context"
	"net/url"
	"strings"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/service"
)

type BuildShareLinkUseCase struct {
	favorites *service.FavoritesStore
	siteURL   string
}

func NewBuildShareLinkUseCase(favorites *service.FavoritesStore, siteURL string) *BuildShareLinkUseCase {
	return &BuildShareLinkUseCase{
		favorites: favorites,
		siteURL:   strings.TrimRight(siteURL, "/"),
	}
}

// Execute строит ссылку /liked?ids=..., открыв которую другой человек
// увидит тот же набор избранного (через explicit-ids режим поиска).
func (uc *BuildShareLinkUseCase) Execute(ctx context.Context, clientID string) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "BuildShareLink",
		"client_id": clientID,
	})

	ids := uc.favorites.All(ctx, clientID)
	ucLogger.Info("Building share link", port.Fields{"ids_count": len(ids)})

	link := uc.siteURL + "/liked"
	if len(ids) > 0 {
		query := url.Values{}
		query.Set("ids", strings.Join(ids, ","))
		link += "?" + query.Encode()
	}
	return link, nil
}
