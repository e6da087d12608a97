package circulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"libris/internal/domain"
	"libris/internal/repository"
)

const (
	// LoanPeriod is the checkout term; renewals extend by the same amount.
	LoanPeriod = 14 * 24 * time.Hour

	// RenewalLimit caps per-checkout renewals.
	RenewalLimit = 2

	// DailyFineRate is charged per started 24-hour bucket past the due date.
	DailyFineRate = 0.50
)

// Service coordinates the checkout, return and renewal lifecycle across the
// catalog, the checkout ledger, the reservation queue and the fine ledger.
type Service struct {
	checkouts    CheckoutRepository
	books        BookRepository
	reservations ReservationRepository
}

func NewService(checkouts CheckoutRepository, books BookRepository, reservations ReservationRepository) *Service {
	return &Service{checkouts: checkouts, books: books, reservations: reservations}
}

// Checkout lends a copy of the book to the target user. Employees may act on
// a customer's behalf via targetUserID; everyone else may only check out for
// themselves.
func (s *Service) Checkout(ctx context.Context, bookID, actorID int64, actorRole domain.UserRole, targetUserID *int64) (*domain.Checkout, error) {
	userID := actorID
	var checkedOutBy *int64
	if targetUserID != nil && *targetUserID != actorID {
		if actorRole != domain.RoleEmployee {
			return nil, ErrForbidden
		}
		userID = *targetUserID
		checkedOutBy = &actorID
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if book.AvailableCopies <= 0 {
		return nil, ErrNoCopiesAvailable
	}

	existing, err := s.checkouts.FindActiveByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCheckout
	}

	now := time.Now().UTC()
	checkout, err := s.checkouts.Checkout(ctx, bookID, userID, checkedOutBy, now, now.Add(LoanPeriod))
	if err != nil {
		// Pre-checks raced: the partial unique index or the guarded
		// decrement rejected the insert.
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_active_checkout" {
				return nil, ErrDuplicateCheckout
			}
		}
		if errors.Is(err, repository.ErrNoAvailableCopies) {
			return nil, ErrNoCopiesAvailable
		}
		return nil, err
	}
	return checkout, nil
}

// Return closes a checkout. The copy goes back on the shelf; a late return
// spawns a pending fine at DailyFineRate per started 24-hour bucket.
func (s *Service) Return(ctx context.Context, checkoutID, actorID int64, actorRole domain.UserRole) (*domain.Fine, error) {
	checkout, err := s.checkouts.GetByID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, err
	}

	if checkout.UserID != actorID && actorRole != domain.RoleEmployee {
		return nil, ErrForbidden
	}
	if checkout.Status == domain.CheckoutReturned {
		return nil, ErrAlreadyReturned
	}

	now := time.Now().UTC()
	fine := lateFine(checkout, now)

	if err := s.checkouts.Return(ctx, checkoutID, now, fine); err != nil {
		return nil, err
	}
	return fine, nil
}

// lateFine builds the fine for a late return, or nil when the book came back
// on time. Overdue days are raw 24-hour buckets rounded up, not calendar days.
func lateFine(checkout *domain.Checkout, returnedAt time.Time) *domain.Fine {
	if !returnedAt.After(checkout.DueDate) {
		return nil
	}

	daysOverdue := int(math.Ceil(returnedAt.Sub(checkout.DueDate).Hours() / 24))
	return &domain.Fine{
		CheckoutID: checkout.ID,
		UserID:     checkout.UserID,
		Amount:     float64(daysOverdue) * DailyFineRate,
		Reason:     fmt.Sprintf("Late return - %d days overdue", daysOverdue),
		DateIssued: returnedAt,
		Status:     domain.FinePending,
	}
}

// Renew extends an active checkout by one loan period. Only the borrower may
// renew, at most RenewalLimit times, and never while any active reservation
// is queued for the book.
func (s *Service) Renew(ctx context.Context, checkoutID, actorID int64) (*domain.Checkout, error) {
	checkout, err := s.checkouts.GetByID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, err
	}

	if checkout.UserID != actorID {
		return nil, ErrForbidden
	}
	if checkout.Status != domain.CheckoutActive {
		return nil, ErrNotActive
	}
	if checkout.RenewalCount >= RenewalLimit {
		return nil, ErrRenewalLimit
	}

	reserved, err := s.reservations.HasActiveForBook(ctx, checkout.BookID)
	if err != nil {
		return nil, err
	}
	if reserved {
		return nil, ErrBookReserved
	}

	newDue := checkout.DueDate.Add(LoanPeriod)
	newCount := checkout.RenewalCount + 1
	if err := s.checkouts.Renew(ctx, checkoutID, newDue, newCount); err != nil {
		return nil, err
	}

	checkout.DueDate = newDue
	checkout.RenewalCount = newCount
	return checkout, nil
}

// MyCheckouts returns the user's non-returned checkouts with book details.
func (s *Service) MyCheckouts(ctx context.Context, userID int64) ([]repository.CheckoutDetails, error) {
	rows, err := s.checkouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	markOverdue(rows, time.Now().UTC())
	return rows, nil
}

// AllCheckouts returns every checkout, optionally filtered by status.
// Employee-only surface; the route guard enforces the role.
func (s *Service) AllCheckouts(ctx context.Context, status string) ([]repository.CheckoutDetails, error) {
	rows, err := s.checkouts.ListAll(ctx, status)
	if err != nil {
		return nil, err
	}
	markOverdue(rows, time.Now().UTC())
	return rows, nil
}

func markOverdue(rows []repository.CheckoutDetails, now time.Time) {
	for i := range rows {
		c := domain.Checkout{
			Status:  domain.CheckoutStatus(rows[i].Status),
			DueDate: rows[i].DueDate,
		}
		rows[i].Overdue = c.Overdue(now)
	}
}
