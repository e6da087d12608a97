package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Email          string    `gorm:"column:email"`
	PasswordHash   string    `gorm:"column:password_hash"`
	Role           string    `gorm:"column:role"`
	FirstName      string    `gorm:"column:first_name"`
	LastName       string    `gorm:"column:last_name"`
	Phone          *string   `gorm:"column:phone"`
	Address        *string   `gorm:"column:address"`
	MembershipDate time.Time `gorm:"column:membership_date"`
	IsActive       bool      `gorm:"column:is_active"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone, address string
	if m.Phone != nil {
		phone = *m.Phone
	}
	if m.Address != nil {
		address = *m.Address
	}

	return &domain.User{
		ID:             m.ID,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           domain.UserRole(m.Role),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Phone:          phone,
		Address:        address,
		MembershipDate: m.MembershipDate,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone, address *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	if u.Address != "" {
		v := u.Address
		address = &v
	}

	return userModel{
		ID:             u.ID,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          phone,
		Address:        address,
		MembershipDate: u.MembershipDate,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// GetByEmail returns (nil, nil) when no user carries the email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var ms []userModel
	tx := r.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(ms) == 0 {
		return nil, nil
	}
	return toDomainUser(ms[0]), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var ms []userModel
	tx := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("last_name, first_name").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}
