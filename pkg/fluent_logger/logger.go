package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config — параметры подключения к Fluent Bit.
type Config struct {
	Host      string // "127.0.0.1" локально, имя контейнера в Docker
	Port      int    // стандартный forward-порт 24224
	TagPrefix string // префикс тегов всех логов сервиса
}

// NewClient создает клиент Fluent Bit. Отправка асинхронная: недоступный
// коллектор не должен блокировать обработку запросов каталога.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        true,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	// Успешное создание клиента еще не означает живое соединение:
	// ошибки всплывут при первой реальной отправке.
	return client, nil
}
