package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type FindPropertiesUseCase struct {
	source port.PropertiesSourcePort
}

func NewFindPropertiesUseCase(source port.PropertiesSourcePort) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{source: source}
}

// Execute выполняет постраничный поиск через upstream API.
// Явный список идентификаторов вытесняет все остальные фасеты.
// Отказ upstream деградирует до пустой выдачи: пользователь видит
// "ничего не найдено", а не баннер с ошибкой.
func (uc *FindPropertiesUseCase) Execute(ctx context.Context, criteria domain.FilterCriteria, limit int) (*domain.PaginatedProperties, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FindProperties",
		"page":     criteria.Page,
		"limit":    limit,
	})

	ucLogger.Info("Use case started", nil)

	if criteria.HasExplicitIDs() {
		// Режим "поделились списком" / раскрытие кластера.
		criteria = domain.FilterCriteria{
			IDs:  criteria.IDs,
			Page: criteria.Page,
		}
		ucLogger.Debug("Explicit IDs override active", port.Fields{"ids_count": len(criteria.IDs)})
	}

	if limit <= 0 {
		limit = defaultPageSize
	}

	result, err := uc.source.FindProperties(ctx, criteria, limit)
	if err != nil {
		ucLogger.Error("Upstream search failed, returning empty page", err, nil)
		return emptyPage(criteria.Page, limit), nil
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
	})
	return result, nil
}

const defaultPageSize = 24

func emptyPage(page, limit int) *domain.PaginatedProperties {
	if page < 1 {
		page = 1
	}
	return &domain.PaginatedProperties{
		Items:        []domain.Property{},
		TotalCount:   0,
		CurrentPage:  page,
		TotalPages:   0,
		ItemsPerPage: limit,
	}
}
