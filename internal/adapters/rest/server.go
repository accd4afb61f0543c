package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "catalog-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string,
	propertiesHandlers *PropertiesHandler,
	mapHandlers *MapHandler,
	favoritesHandlers *FavoritesHandler,
	filtersHandlers *FiltersHandler,
	newsHandlers *NewsHandler,
	allowedOrigins []string,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	// Стандартные middleware
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Client-ID", "X-Trace-ID"},

		// Браузеру нужно видеть выданный сервером идентификатор клиента
		ExposedHeaders: []string{"X-Client-ID"},

		AllowCredentials: false,
		MaxAge:           300, // 5 минут
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// ClientIDMiddleware на всей группе: избранное помечается в любых
		// выдачах, а не только на страницах избранного.
		r.Use(ClientIDMiddleware)

		r.Get("/properties", propertiesHandlers.FindProperties)
		r.Get("/properties/{propertyID}", propertiesHandlers.GetPropertyDetails)

		r.Get("/map/properties", mapHandlers.GetMapProperties)
		r.Get("/map/clusters", mapHandlers.GetMapClusters)

		r.Get("/filters/options", filtersHandlers.GetFilterOptions)

		r.Get("/news", newsHandlers.GetNews)
		r.Get("/news/{articleID}", newsHandlers.GetNewsArticle)

		r.Route("/favorites", func(r chi.Router) {
			r.Post("/toggle", favoritesHandlers.ToggleFavorite)
			r.Get("/ids", favoritesHandlers.GetFavoriteIds)
			r.Get("/properties", favoritesHandlers.GetLikedProperties)
			r.Get("/share-link", favoritesHandlers.GetShareLink)
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
