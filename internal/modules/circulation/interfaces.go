package circulation

import (
	"context"
	"time"

	"libris/internal/domain"
	"libris/internal/repository"
)

// CheckoutRepository defines the checkout ledger operations. Checkout and
// Return are transactional: their whole effect set commits or none of it does.
type CheckoutRepository interface {
	Checkout(ctx context.Context, bookID, userID int64, checkedOutBy *int64, now, due time.Time) (*domain.Checkout, error)
	Return(ctx context.Context, checkoutID int64, returnedAt time.Time, fine *domain.Fine) error
	Renew(ctx context.Context, checkoutID int64, newDue time.Time, newCount int) error
	GetByID(ctx context.Context, id int64) (*domain.Checkout, error)
	FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Checkout, error)
	ListByUser(ctx context.Context, userID int64) ([]repository.CheckoutDetails, error)
	ListAll(ctx context.Context, status string) ([]repository.CheckoutDetails, error)
}

// BookRepository defines the catalog lookups the coordinator needs
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

// ReservationRepository defines the reservation queue lookups the coordinator needs
type ReservationRepository interface {
	HasActiveForBook(ctx context.Context, bookID int64) (bool, error)
}
