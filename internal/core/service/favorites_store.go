package service

import (
	"context"
	"sync"

	"catalog-service/internal/core/port"
)

// FavoritesStore — разделяемый набор "понравившихся" объектов клиента.
//
// Хранилище (файл или PostgreSQL) — долговременная копия; в памяти держится
// зеркало по клиентам для дешевых IsFavorite на каждую карточку выдачи.
// Запись сквозная: сначала обновляется зеркало (пользователь сразу видит
// свой клик), затем репозиторий. Отказ записи логируется, но зеркало не
// откатывается — в рамках сессии клик пользователя остается в силе.
//
// Согласованность между поверхностями — наблюдатель: каждый Toggle
// оповещает локальных подписчиков, а через broadcast-порт и другие
// экземпляры сервиса, которые перечитывают хранилище (Refresh).
type FavoritesStore struct {
	repo      port.FavoritesRepositoryPort
	broadcast port.FavoritesBroadcastPort
	logger    port.LoggerPort

	mu     sync.RWMutex
	cache  map[string][]string
	loaded map[string]struct{}
	subs   []func(clientID string, ids []string)
}

// NewFavoritesStore создает стор. broadcast может быть nil — тогда
// межэкземплярные оповещения отключены.
func NewFavoritesStore(repo port.FavoritesRepositoryPort, broadcast port.FavoritesBroadcastPort, logger port.LoggerPort) *FavoritesStore {
	if logger == nil {
		logger = noopLogger{}
	}
	return &FavoritesStore{
		repo:      repo,
		broadcast: broadcast,
		logger:    logger.WithFields(port.Fields{"component": "FavoritesStore"}),
		cache:     make(map[string][]string),
		loaded:    make(map[string]struct{}),
	}
}

// Toggle добавляет объект в избранное, если его там нет, и убирает, если
// есть. Возвращает итоговое состояние членства.
func (s *FavoritesStore) Toggle(ctx context.Context, clientID, propertyID string) (bool, error) {
	logger := s.logger.WithFields(port.Fields{
		"client_id":   clientID,
		"property_id": propertyID,
	})

	s.mu.Lock()
	ids := s.loadLocked(ctx, clientID)
	nowFavorite := true
	next := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id == propertyID {
			nowFavorite = false
			continue
		}
		next = append(next, id)
	}
	if nowFavorite {
		next = append(next, propertyID)
	}
	s.cache[clientID] = next
	snapshot := append([]string(nil), next...)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	// Сквозная запись. Отказ не откатывает зеркало: пользователь видит
	// результат клика, даже если персистентность молча не удалась.
	var persistErr error
	if nowFavorite {
		persistErr = s.repo.Add(ctx, clientID, propertyID)
	} else {
		persistErr = s.repo.Remove(ctx, clientID, propertyID)
	}
	if persistErr != nil {
		logger.Error("Failed to persist favorites change, keeping in-memory state", persistErr, nil)
	}

	if s.broadcast != nil {
		if err := s.broadcast.PublishFavoritesUpdated(ctx, clientID); err != nil {
			logger.Warn("Failed to broadcast favorites update", port.Fields{"error": err.Error()})
		}
	}

	notifyFavoriteSubs(subs, clientID, snapshot)
	logger.Debug("Favorite toggled", port.Fields{"now_favorite": nowFavorite, "total": len(snapshot)})
	return nowFavorite, nil
}

// IsFavorite — дешевая проверка членства для рендера карточки.
func (s *FavoritesStore) IsFavorite(ctx context.Context, clientID, propertyID string) bool {
	s.mu.Lock()
	ids := s.loadLocked(ctx, clientID)
	s.mu.Unlock()
	for _, id := range ids {
		if id == propertyID {
			return true
		}
	}
	return false
}

// All — снимок избранного клиента в порядке добавления.
func (s *FavoritesStore) All(ctx context.Context, clientID string) []string {
	s.mu.Lock()
	ids := s.loadLocked(ctx, clientID)
	out := append([]string(nil), ids...)
	s.mu.Unlock()
	return out
}

// Refresh перечитывает хранилище и оповещает подписчиков. Вызывается,
// когда другой экземпляр сервиса сообщил об изменении через broadcast.
func (s *FavoritesStore) Refresh(ctx context.Context, clientID string) {
	ids, err := s.repo.FindIDsByClient(ctx, clientID)
	if err != nil {
		s.logger.Warn("Failed to refresh favorites from repository", port.Fields{
			"client_id": clientID, "error": err.Error(),
		})
		return
	}
	if ids == nil {
		ids = []string{}
	}

	s.mu.Lock()
	s.cache[clientID] = ids
	s.loaded[clientID] = struct{}{}
	snapshot := append([]string(nil), ids...)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notifyFavoriteSubs(subs, clientID, snapshot)
}

// Subscribe регистрирует наблюдателя изменений избранного.
func (s *FavoritesStore) Subscribe(fn func(clientID string, ids []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// loadLocked лениво поднимает избранное клиента из репозитория.
// Нечитаемое хранилище трактуется как пустой набор.
func (s *FavoritesStore) loadLocked(ctx context.Context, clientID string) []string {
	if _, ok := s.loaded[clientID]; ok {
		return s.cache[clientID]
	}
	ids, err := s.repo.FindIDsByClient(ctx, clientID)
	if err != nil {
		s.logger.Warn("Failed to read favorites, treating as empty", port.Fields{
			"client_id": clientID, "error": err.Error(),
		})
		ids = nil
	}
	if ids == nil {
		ids = []string{}
	}
	s.cache[clientID] = ids
	s.loaded[clientID] = struct{}{}
	return ids
}

func (s *FavoritesStore) subscribersLocked() []func(string, []string) {
	out := make([]func(string, []string), len(s.subs))
	copy(out, s.subs)
	return out
}

func notifyFavoriteSubs(subs []func(string, []string), clientID string, ids []string) {
	for _, fn := range subs {
		fn(clientID, append([]string(nil), ids...))
	}
}
