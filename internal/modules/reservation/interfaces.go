package reservation

import (
	"context"

	"libris/internal/domain"
	"libris/internal/repository"
)

// ReservationRepository defines the reservation queue operations
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Reservation, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]repository.ReservationDetails, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
}

// BookRepository defines the catalog lookups the queue needs
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

// CheckoutFinder reports whether a user already holds a non-returned
// checkout of a book.
type CheckoutFinder interface {
	FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Checkout, error)
}
