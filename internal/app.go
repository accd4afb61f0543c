package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	file_adapter "catalog-service/internal/adapters/file"
	logger_adapter "catalog-service/internal/adapters/logger"
	postgres_adapter "catalog-service/internal/adapters/postgres"
	"catalog-service/internal/adapters/properties_api_client"
	"catalog-service/internal/adapters/rabbitmq"
	"catalog-service/internal/adapters/rest"
	"catalog-service/internal/configs"
	"catalog-service/internal/constants"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/service"
	"catalog-service/internal/core/usecase"
	fluentlogger "catalog-service/pkg/fluent_logger"
	"catalog-service/pkg/postgres"
	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_consumer"
	"catalog-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	rabbitManager     *rabbitmq_common.ConnectionManager
	favoritesProducer *rabbitmq_producer.Publisher
	favoritesConsumer *rabbitmq_consumer.Consumer

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// --- 3. ХРАНИЛИЩЕ ИЗБРАННОГО ---
	var favoritesRepo port.FavoritesRepositoryPort
	switch appConfig.Favorites.Store {
	case "postgres":
		dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Favorites.DatabaseURL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)
		application.dbPool = dbPool

		favoritesRepo, err = postgres_adapter.NewPostgresFavoritesRepository(dbPool)
		if err != nil {
			appLogger.Error("Failed to create postgres favorites repository", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres favorites repository: %w", err)
		}
	default:
		favoritesRepo, err = file_adapter.NewFileFavoritesRepository(appConfig.Favorites.Dir)
		if err != nil {
			appLogger.Error("Failed to create file favorites repository", err, nil)
			return nil, fmt.Errorf("failed to create file favorites repository: %w", err)
		}
	}

	// --- 4. RABBITMQ (опционально) ---
	// instanceID отличает это развертывание от остальных: экземпляр не
	// должен реагировать на собственные broadcast-события.
	instanceID := uuid.New().String()
	var favoritesBroadcast port.FavoritesBroadcastPort
	if appConfig.RabbitMQ.Enabled {
		pkgLogger := rabbitmq.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

		manager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, pkgLogger)
		if err != nil {
			appLogger.Error("Failed to connect to RabbitMQ", err, nil)
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		application.rabbitManager = manager

		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeFavoritesUpdated,
			ExchangeType:             amqp091.ExchangeFanout,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   pkgLogger,
		}, manager)
		if err != nil {
			appLogger.Error("Failed to create favorites producer", err, nil)
			return nil, fmt.Errorf("failed to create favorites producer: %w", err)
		}
		application.favoritesProducer = producer

		favoritesBroadcast, err = rabbitmq.NewFavoritesBroadcastAdapter(producer, instanceID)
		if err != nil {
			appLogger.Error("Failed to create favorites broadcast adapter", err, nil)
			return nil, fmt.Errorf("failed to create favorites broadcast adapter: %w", err)
		}
	}

	favoritesStore := service.NewFavoritesStore(favoritesRepo, favoritesBroadcast, baseLogger)

	if appConfig.RabbitMQ.Enabled {
		consumerAdapter, err := rabbitmq.NewFavoritesConsumerAdapter(favoritesStore, instanceID, baseLogger)
		if err != nil {
			appLogger.Error("Failed to create favorites consumer adapter", err, nil)
			return nil, fmt.Errorf("failed to create favorites consumer adapter: %w", err)
		}

		pkgLogger := rabbitmq.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))
		consumer, err := rabbitmq_consumer.NewConsumer(rabbitmq_consumer.ConsumerConfig{
			Config: rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			// Server-named эксклюзивная очередь: каждый экземпляр получает
			// свою копию каждого события из fanout-обменника.
			QueueName:              "",
			DeclareQueue:           true,
			ExclusiveQueue:         true,
			AutoDeleteQueue:        true,
			ExchangeNameForBind:    constants.ExchangeFavoritesUpdated,
			DeclareExchangeForBind: true,
			ExchangeTypeForBind:    amqp091.ExchangeFanout,
			DurableExchangeForBind: true,
			ConsumerTag:            appConfig.AppName + "-" + instanceID,
			Logger:                 pkgLogger,
		}, consumerAdapter.HandleDelivery, application.rabbitManager)
		if err != nil {
			appLogger.Error("Failed to create favorites consumer", err, nil)
			return nil, fmt.Errorf("failed to create favorites consumer: %w", err)
		}
		application.favoritesConsumer = consumer
	}

	// --- 5. UPSTREAM API КЛИЕНТ ---
	apiClient := properties_api_client.NewClient(
		appConfig.UpstreamAPI.URL,
		appConfig.UpstreamAPI.Key,
		appConfig.UpstreamAPI.Secret,
	)
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 6. USE CASES (ядро бизнес-логики) ---
	findPropertiesUseCase := usecase.NewFindPropertiesUseCase(apiClient)
	getPropertyDetailsUseCase := usecase.NewGetPropertyDetailsUseCase(apiClient)
	getMapPropertiesUseCase := usecase.NewGetMapPropertiesUseCase(apiClient)
	clusterMapPropertiesUseCase := usecase.NewClusterMapPropertiesUseCase(getMapPropertiesUseCase)
	getFilterOptionsUseCase := usecase.NewGetFilterOptionsUseCase(apiClient)
	getNewsUseCase := usecase.NewGetNewsUseCase(apiClient)
	getNewsArticleUseCase := usecase.NewGetNewsArticleUseCase(apiClient)
	getLikedPropertiesUseCase := usecase.NewGetLikedPropertiesUseCase(favoritesStore, apiClient)
	buildShareLinkUseCase := usecase.NewBuildShareLinkUseCase(favoritesStore, appConfig.SiteURL)

	// --- 7. REST API SERVER ---
	propertiesHandlers := rest.NewPropertiesHandler(findPropertiesUseCase, getPropertyDetailsUseCase, favoritesStore)
	mapHandlers := rest.NewMapHandler(getMapPropertiesUseCase, clusterMapPropertiesUseCase, favoritesStore)
	favoritesHandlers := rest.NewFavoritesHandler(favoritesStore, getLikedPropertiesUseCase, buildShareLinkUseCase)
	filtersHandlers := rest.NewFiltersHandler(getFilterOptionsUseCase)
	newsHandlers := rest.NewNewsHandler(getNewsUseCase, getNewsArticleUseCase)

	application.apiServer = rest.NewServer(
		appConfig.Rest.PORT,
		propertiesHandlers,
		mapHandlers,
		favoritesHandlers,
		filtersHandlers,
		newsHandlers,
		appConfig.Rest.AllowedOrigins,
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.favoritesConsumer != nil {
			if err := a.favoritesConsumer.Close(); err != nil {
				a.logger.Error("Error closing favorites consumer", err, nil)
			}
		}
		if a.favoritesProducer != nil {
			if err := a.favoritesProducer.Close(); err != nil {
				a.logger.Error("Error closing favorites producer", err, nil)
			}
		}
		if a.rabbitManager != nil {
			if err := a.rabbitManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	if a.favoritesConsumer != nil {
		go func() {
			if err := a.favoritesConsumer.StartConsuming(appCtx); err != nil {
				a.logger.Error("Favorites consumer stopped with error", err, nil)
			}
		}()
	}

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
