package upload

import (
	"context"

	"libris/internal/domain"
)

// Repository persists upload metadata
type Repository interface {
	Create(ctx context.Context, u *domain.Upload) error
	GetByID(ctx context.Context, id string) (*domain.Upload, error)
}
