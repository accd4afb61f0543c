package rabbitmq

// FavoritesUpdatedEventDTO — тело события об изменении избранного.
// Сами идентификаторы не передаются: получатель перечитывает хранилище.
// InstanceID нужен, чтобы экземпляр-источник не реагировал на свое же
// событие (локальное зеркало у него уже актуально).
type FavoritesUpdatedEventDTO struct {
	ClientID   string `json:"client_id"`
	InstanceID string `json:"instance_id"`
	OccurredAt string `json:"occurred_at"`
}
