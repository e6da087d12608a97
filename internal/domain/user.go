package domain

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleEmployee UserRole = "employee"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email" validate:"required,email"`
	PasswordHash   string    `json:"-"`
	Role           UserRole  `json:"role"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	MembershipDate time.Time `json:"membership_date"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
