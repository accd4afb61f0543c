package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/service"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FavoritesConsumerAdapter принимает события об изменении избранного от
// других экземпляров и заставляет локальный стор перечитать хранилище.
// Аналог события "storage" в браузере: вкладка-источник его не получает.
type FavoritesConsumerAdapter struct {
	store      *service.FavoritesStore
	instanceID string
	logger     port.LoggerPort
}

// NewFavoritesConsumerAdapter создает новый экземпляр.
func NewFavoritesConsumerAdapter(store *service.FavoritesStore, instanceID string, logger port.LoggerPort) (*FavoritesConsumerAdapter, error) {
	if store == nil {
		return nil, fmt.Errorf("favorites store cannot be nil")
	}
	if instanceID == "" {
		return nil, fmt.Errorf("instanceID cannot be empty")
	}
	return &FavoritesConsumerAdapter{
		store:      store,
		instanceID: instanceID,
		logger:     logger,
	}, nil
}

// HandleDelivery — обработчик для rabbitmq_consumer.MessageHandler.
func (a *FavoritesConsumerAdapter) HandleDelivery(delivery amqp.Delivery) error {
	adapterLogger := a.logger.WithFields(port.Fields{
		"component": "FavoritesConsumerAdapter",
	})

	var event FavoritesUpdatedEventDTO
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		adapterLogger.Error("Failed to unmarshal favorites event", err, nil)
		return fmt.Errorf("failed to unmarshal favorites event: %w", err)
	}

	// Свое же событие: локальное зеркало уже обновлено в Toggle.
	if event.InstanceID == a.instanceID {
		adapterLogger.Debug("Ignoring own favorites event", port.Fields{"client_id": event.ClientID})
		return nil
	}

	ctx := contextkeys.ContextWithLogger(context.Background(), adapterLogger)
	if traceID, ok := delivery.Headers["x-trace-id"].(string); ok && traceID != "" {
		ctx = contextkeys.ContextWithTraceID(ctx, traceID)
	}

	adapterLogger.Info("Refreshing favorites after remote update", port.Fields{"client_id": event.ClientID})
	a.store.Refresh(ctx, event.ClientID)
	return nil
}
