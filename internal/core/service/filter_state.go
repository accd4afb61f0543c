package service

import (
	"net/url"
	"sync"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// FilterState — состояние фильтров одной страницы каталога.
//
// Источник истины — каноническая query-строка; разобранные критерии лишь
// производный кэш для синхронных чтений. Поток данных однонаправленный:
// мутации (SetFilters/SetPage/ClearFilters) перекодируют query-строку и из
// нее же обновляют кэш, внешняя навигация (back/forward) заходит через
// SyncFromURL и тоже перерасшифровывает кэш из query-строки. Обратной
// синхронизации "кэш -> URL" нет.
//
// Каждая мутация увеличивает монотонный счетчик версий. Ответ upstream,
// отправленный под старой версией, отбрасывается вызывающим кодом через
// IsCurrent — так поздний ответ не затирает более свежую выдачу.
type FilterState struct {
	mu       sync.Mutex
	defaults domain.FilterCriteria
	query    url.Values
	criteria domain.FilterCriteria
	version  uint64
	subs     []func(domain.FilterCriteria, uint64)
	logger   port.LoggerPort
}

// NewFilterState создает состояние с дефолтами страницы.
func NewFilterState(defaults domain.FilterCriteria, logger port.LoggerPort) *FilterState {
	if logger == nil {
		logger = noopLogger{}
	}
	defaults = defaults.Clone()
	if defaults.Page < 1 {
		defaults.Page = 1
	}
	query := defaults.EncodeQuery()
	return &FilterState{
		defaults: defaults,
		query:    query,
		criteria: domain.DecodeFilters(query, defaults),
		logger:   logger.WithFields(port.Fields{"component": "FilterState"}),
	}
}

// SetFilters заменяет критерии целиком. Страница сбрасывается на первую.
// Возвращает новую версию состояния.
func (s *FilterState) SetFilters(c domain.FilterCriteria) uint64 {
	s.mu.Lock()
	s.query = c.EncodeQuery()
	s.criteria = domain.DecodeFilters(s.query, s.defaults)
	s.version++
	v := s.version
	snapshot, subs := s.criteria.Clone(), s.subscribers()
	s.mu.Unlock()

	s.logger.Debug("Filters replaced", port.Fields{"version": v})
	notifyFilterSubs(subs, snapshot, v)
	return v
}

// SetPage меняет только номер страницы, остальные ключи query-строки
// (включая нераспознанные) сохраняются как есть.
func (s *FilterState) SetPage(page int) uint64 {
	s.mu.Lock()
	s.query = domain.SetPageQuery(s.query, page)
	s.criteria = domain.DecodeFilters(s.query, s.defaults)
	s.version++
	v := s.version
	snapshot, subs := s.criteria.Clone(), s.subscribers()
	s.mu.Unlock()

	notifyFilterSubs(subs, snapshot, v)
	return v
}

// ClearFilters сбрасывает состояние к дефолтам страницы. Скалярные дефолты
// (rentType, sort, market) сохраняются, а мультиселекты очищаются даже
// если у страницы для них был дефолт — "очистить" снимает все галочки.
func (s *FilterState) ClearFilters() uint64 {
	cleared := s.defaults.Clone()
	cleared.Types = nil
	cleared.Bedrooms = nil
	cleared.Amenities = nil
	cleared.Locations = nil
	cleared.IDs = nil
	cleared.Polygon = nil
	return s.SetFilters(cleared)
}

// SyncFromURL принимает query-строку, изменившуюся вне сервиса
// (навигация назад/вперед, ручная правка адреса), и перевычисляет кэш.
// Некорректно закодированная строка не ошибка: разбирается все, что
// удалось, битый полигон отбрасывается кодеком.
func (s *FilterState) SyncFromURL(rawQuery string) uint64 {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		s.logger.Warn("Malformed query string, using parsable part", port.Fields{"error": err.Error()})
	}

	s.mu.Lock()
	s.query = values
	s.criteria = domain.DecodeFilters(values, s.defaults)
	s.version++
	v := s.version
	snapshot, subs := s.criteria.Clone(), s.subscribers()
	s.mu.Unlock()

	notifyFilterSubs(subs, snapshot, v)
	return v
}

// Filters — снимок текущих критериев.
func (s *FilterState) Filters() domain.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Clone()
}

// Page — текущая страница.
func (s *FilterState) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Page
}

// EncodedQuery — каноническая query-строка состояния.
func (s *FilterState) EncodedQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Encode()
}

// Version — версия последней мутации.
func (s *FilterState) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// IsCurrent сообщает, относится ли версия к самому свежему состоянию.
func (s *FilterState) IsCurrent(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version == version
}

// Subscribe регистрирует наблюдателя; он вызывается на каждой мутации
// со снимком критериев и версией.
func (s *FilterState) Subscribe(fn func(domain.FilterCriteria, uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *FilterState) subscribers() []func(domain.FilterCriteria, uint64) {
	out := make([]func(domain.FilterCriteria, uint64), len(s.subs))
	copy(out, s.subs)
	return out
}

func notifyFilterSubs(subs []func(domain.FilterCriteria, uint64), c domain.FilterCriteria, v uint64) {
	for _, fn := range subs {
		fn(c.Clone(), v)
	}
}

type noopLogger struct{}

func (noopLogger) Info(string, port.Fields)                  {}
func (noopLogger) Warn(string, port.Fields)                  {}
func (noopLogger) Error(string, error, port.Fields)          {}
func (noopLogger) Debug(string, port.Fields)                 {}
func (n noopLogger) WithFields(port.Fields) port.LoggerPort { return n }
