package port

import "context"

// FavoritesRepositoryPort — контракт долговременного хранилища избранного.
// Идентификаторы возвращаются в порядке добавления: он определяет порядок
// карточек на странице "понравившиеся".
type FavoritesRepositoryPort interface {
	Add(ctx context.Context, clientID, propertyID string) error
	Remove(ctx context.Context, clientID, propertyID string) error
	FindIDsByClient(ctx context.Context, clientID string) ([]string, error)
}
