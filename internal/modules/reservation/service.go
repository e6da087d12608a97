package reservation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
	"libris/internal/repository"
)

// HoldPeriod is how long a reservation stays claimable before the cleanup
// sweep cancels it.
const HoldPeriod = 7 * 24 * time.Hour

type Service struct {
	reservations ReservationRepository
	books        BookRepository
	checkouts    CheckoutFinder
}

func NewService(reservations ReservationRepository, books BookRepository, checkouts CheckoutFinder) *Service {
	return &Service{reservations: reservations, books: books, checkouts: checkouts}
}

// Reserve queues the user for the book. Reservations exist only for books
// with nothing on the shelf; a user holding the book, or already queued for
// it, cannot reserve it again.
func (s *Service) Reserve(ctx context.Context, bookID, userID int64) (*domain.Reservation, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if book.AvailableCopies > 0 {
		return nil, ErrBookAvailable
	}

	existing, err := s.reservations.FindActiveByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateReservation
	}

	checkout, err := s.checkouts.FindActiveByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if checkout != nil {
		return nil, ErrDuplicateCheckout
	}

	now := time.Now().UTC()
	res := &domain.Reservation{
		BookID:          bookID,
		UserID:          userID,
		ReservationDate: now,
		ExpiryDate:      now.Add(HoldPeriod),
		Status:          domain.ReservationActive,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel marks the reservation cancelled. Only the reservation's owner may
// cancel it.
func (s *Service) Cancel(ctx context.Context, reservationID, userID int64) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if res.UserID != userID {
		return ErrForbidden
	}

	return s.reservations.UpdateStatus(ctx, reservationID, domain.ReservationCancelled)
}

// MyReservations returns the user's active reservations with book details.
func (s *Service) MyReservations(ctx context.Context, userID int64) ([]repository.ReservationDetails, error) {
	return s.reservations.ListActiveByUser(ctx, userID)
}
