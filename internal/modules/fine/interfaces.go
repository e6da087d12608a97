package fine

import (
	"context"
	"time"

	"libris/internal/domain"
	"libris/internal/repository"
)

// FineRepository defines the fine ledger operations
type FineRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Fine, error)
	ListByUser(ctx context.Context, userID int64) ([]repository.FineDetails, error)
	ListAll(ctx context.Context, status string) ([]repository.FineDetails, error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) (int64, error)
}
