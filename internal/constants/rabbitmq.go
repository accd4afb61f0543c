package constants

// Имена обменников
const (
	ExchangeFavoritesUpdated = "favorites.updated"
)

// Типы событий
const (
	EventTypeFavoritesUpdated = "FavoritesUpdatedEvent"
)
