package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type GetPropertyDetailsUseCase interface {
	Execute(ctx context.Context, id string) (*domain.Property, error)
}
