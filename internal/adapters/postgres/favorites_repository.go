package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavoritesRepository - реализация порта избранного для PostgreSQL.
type PostgresFavoritesRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFavoritesRepository - конструктор.
func NewPostgresFavoritesRepository(pool *pgxpool.Pool) (*PostgresFavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresFavoritesRepository{pool: pool}, nil
}

// Add добавляет запись в client_favorites.
func (r *PostgresFavoritesRepository) Add(ctx context.Context, clientID, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      "Add",
		"client_id":   clientID,
		"property_id": propertyID,
	})

	repoLogger.Debug("Attempting to add to favorites.", nil)
	query := `INSERT INTO client_favorites (client_id, property_id) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, clientID, propertyID)
	if err != nil {
		// Нарушение PRIMARY KEY означает, что запись уже существует.
		// Для идемпотентного Toggle это не ошибка.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // 23505 - unique_violation
			repoLogger.Warn("Favorite already exists, operation considered successful.", nil)
			return nil
		}
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	repoLogger.Debug("Successfully added to favorites.", nil)
	return nil
}

// Remove удаляет запись из client_favorites.
func (r *PostgresFavoritesRepository) Remove(ctx context.Context, clientID, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      "Remove",
		"client_id":   clientID,
		"property_id": propertyID,
	})

	repoLogger.Debug("Attempting to remove from favorites.", nil)
	query := `DELETE FROM client_favorites WHERE client_id = $1 AND property_id = $2`

	cmdTag, err := r.pool.Exec(ctx, query, clientID, propertyID)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to remove a favorite that did not exist.", nil)
	} else {
		repoLogger.Debug("Successfully removed from favorites.", nil)
	}
	return nil
}

// FindIDsByClient возвращает идентификаторы в порядке добавления:
// он определяет порядок карточек на странице избранного.
func (r *PostgresFavoritesRepository) FindIDsByClient(ctx context.Context, clientID string) ([]string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavoritesRepository",
		"method":    "FindIDsByClient",
		"client_id": clientID,
	})

	dataQuery := "SELECT property_id FROM client_favorites WHERE client_id = $1 ORDER BY created_at ASC"
	rows, err := r.pool.Query(ctx, dataQuery, clientID)
	if err != nil {
		repoLogger.Error("Failed to query favorite IDs", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query favorite IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			repoLogger.Error("Failed to scan favorite ID row", err, nil)
			return nil, fmt.Errorf("failed to scan favorite ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during favorite IDs iteration", err, nil)
		return nil, fmt.Errorf("error during favorite IDs iteration: %w", err)
	}

	return ids, nil
}
