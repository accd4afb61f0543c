package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetPropertyDetailsUseCase struct {
	source port.PropertiesSourcePort
}

func NewGetPropertyDetailsUseCase(source port.PropertiesSourcePort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{source: source}
}

// Execute возвращает один объект или nil, если upstream его не знает.
func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": id,
	})

	ucLogger.Info("Use case started", nil)

	property, err := uc.source.GetPropertyByID(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to get property from upstream", err, nil)
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}

	if property == nil {
		ucLogger.Warn("Property not found", nil)
		return nil, nil
	}

	ucLogger.Info("Use case finished successfully", nil)
	return property, nil
}
