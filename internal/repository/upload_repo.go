package repository

import (
	"context"

	"gorm.io/gorm"

	"libris/internal/domain"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UploadRepository) GetByID(ctx context.Context, id string) (*domain.Upload, error) {
	var u domain.Upload
	tx := r.db.WithContext(ctx).First(&u, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}
