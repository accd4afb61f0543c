package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/constants"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FavoritesBroadcastAdapter публикует события об изменении избранного
// в fanout-обменник: каждое получат все экземпляры сервиса.
type FavoritesBroadcastAdapter struct {
	producer   *rabbitmq_producer.Publisher
	instanceID string
}

// NewFavoritesBroadcastAdapter создает новый экземпляр.
func NewFavoritesBroadcastAdapter(producer *rabbitmq_producer.Publisher, instanceID string) (*FavoritesBroadcastAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if instanceID == "" {
		return nil, fmt.Errorf("instanceID cannot be empty")
	}
	return &FavoritesBroadcastAdapter{
		producer:   producer,
		instanceID: instanceID,
	}, nil
}

// PublishFavoritesUpdated отправляет оповещение. Fanout-обменник
// игнорирует ключ маршрутизации.
func (a *FavoritesBroadcastAdapter) PublishFavoritesUpdated(ctx context.Context, clientID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component": "FavoritesBroadcastAdapter",
		"client_id": clientID,
	})

	eventDTO := FavoritesUpdatedEventDTO{
		ClientID:   clientID,
		InstanceID: a.instanceID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal favorites event to JSON", err, nil)
		return fmt.Errorf("failed to marshal favorites event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		Body:        eventJSON,
		Timestamp:   time.Now(),
		Headers: amqp.Table{
			"event-type":    constants.EventTypeFavoritesUpdated,
			"event-version": "1.0.0",
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, "", msg); err != nil {
		adapterLogger.Error("Failed to publish favorites event", err, nil)
		return err
	}

	adapterLogger.Debug("Successfully published favorites event", nil)
	return nil
}
