package port

import "context"

// FavoritesBroadcastPort — оповещение других экземпляров сервиса о том,
// что избранное клиента изменилось. Получившая сторона перечитывает
// хранилище; сами идентификаторы в событии не передаются.
type FavoritesBroadcastPort interface {
	PublishFavoritesUpdated(ctx context.Context, clientID string) error
}
