package file_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
)

// FileFavoritesRepository хранит избранное каждого клиента в отдельном
// JSON-файле (массив идентификаторов в порядке добавления). Это дешевый
// вариант для single-node развертывания без базы; схема файла повторяет
// то, что браузер хранил бы в localStorage.
type FileFavoritesRepository struct {
	dir string
	mu  sync.Mutex
}

func NewFileFavoritesRepository(dir string) (*FileFavoritesRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("favorites directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create favorites directory: %w", err)
	}
	return &FileFavoritesRepository{dir: dir}, nil
}

func (r *FileFavoritesRepository) Add(ctx context.Context, clientID, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "FileFavoritesRepository",
		"method":      "Add",
		"client_id":   clientID,
		"property_id": propertyID,
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.readLocked(clientID)
	for _, id := range ids {
		if id == propertyID {
			// Уже в избранном, операция идемпотентна.
			return nil
		}
	}
	ids = append(ids, propertyID)

	if err := r.writeLocked(clientID, ids); err != nil {
		repoLogger.Error("Failed to persist favorites file", err, nil)
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	repoLogger.Debug("Successfully added to favorites.", nil)
	return nil
}

func (r *FileFavoritesRepository) Remove(ctx context.Context, clientID, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "FileFavoritesRepository",
		"method":      "Remove",
		"client_id":   clientID,
		"property_id": propertyID,
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.readLocked(clientID)
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != propertyID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == len(ids) {
		repoLogger.Warn("Attempted to remove a favorite that did not exist.", nil)
		return nil
	}

	if err := r.writeLocked(clientID, filtered); err != nil {
		repoLogger.Error("Failed to persist favorites file", err, nil)
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	repoLogger.Debug("Successfully removed from favorites.", nil)
	return nil
}

func (r *FileFavoritesRepository) FindIDsByClient(ctx context.Context, clientID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readLocked(clientID), nil
}

// readLocked читает файл клиента. Отсутствующий или битый файл трактуется
// как пустое избранное, а не как ошибка: каталог должен работать дальше.
func (r *FileFavoritesRepository) readLocked(clientID string) []string {
	raw, err := os.ReadFile(r.pathFor(clientID))
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

// writeLocked пишет через временный файл и rename, чтобы при падении
// процесса на диске не остался полузаписанный JSON.
func (r *FileFavoritesRepository) writeLocked(clientID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	path := r.pathFor(clientID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// pathFor экранирует clientID: в имени файла допустимы только безопасные
// символы, все прочее заменяется на подчеркивание.
func (r *FileFavoritesRepository) pathFor(clientID string) string {
	safe := strings.Map(func(ch rune) rune {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			return ch
		default:
			return '_'
		}
	}, clientID)
	return filepath.Join(r.dir, safe+".json")
}
