package auth

import (
	"context"

	"libris/internal/domain"
)

// UserRepository defines the user directory operations the service needs
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type jwtService interface {
	GenerateToken(userID int64, role domain.UserRole) (string, error)
}
