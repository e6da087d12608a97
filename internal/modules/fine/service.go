package fine

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
	"libris/internal/repository"
)

type Service struct {
	fines FineRepository
}

func NewService(fines FineRepository) *Service {
	return &Service{fines: fines}
}

// MyFines returns the user's fines with book details.
func (s *Service) MyFines(ctx context.Context, userID int64) ([]repository.FineDetails, error) {
	return s.fines.ListByUser(ctx, userID)
}

// AllFines returns every fine, optionally filtered by status. Employee-only
// surface; the route guard enforces the role.
func (s *Service) AllFines(ctx context.Context, status string) ([]repository.FineDetails, error) {
	return s.fines.ListAll(ctx, status)
}

// Pay settles a pending fine. Only employees record payments; a fine that is
// already paid keeps its original paid timestamp.
func (s *Service) Pay(ctx context.Context, fineID int64, actorRole domain.UserRole) (*domain.Fine, error) {
	if actorRole != domain.RoleEmployee {
		return nil, ErrForbidden
	}

	f, err := s.fines.GetByID(ctx, fineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if f.Status == domain.FinePaid {
		return nil, ErrAlreadyPaid
	}

	now := time.Now().UTC()
	affected, err := s.fines.MarkPaid(ctx, fineID, now)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race against another payment.
		return nil, ErrAlreadyPaid
	}

	f.Status = domain.FinePaid
	f.DatePaid = &now
	return f, nil
}
