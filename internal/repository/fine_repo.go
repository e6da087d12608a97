package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
)

type FineRepository struct {
	db *gorm.DB
}

func NewFineRepository(db *gorm.DB) *FineRepository {
	return &FineRepository{db: db}
}

type fineModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	CheckoutID int64      `gorm:"column:checkout_id"`
	UserID     int64      `gorm:"column:user_id"`
	Amount     float64    `gorm:"column:amount"`
	Reason     string     `gorm:"column:reason"`
	DateIssued time.Time  `gorm:"column:date_issued"`
	DatePaid   *time.Time `gorm:"column:date_paid"`
	Status     string     `gorm:"column:status"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (fineModel) TableName() string { return "fines" }

func toDomainFine(m fineModel) *domain.Fine {
	return &domain.Fine{
		ID:         m.ID,
		CheckoutID: m.CheckoutID,
		UserID:     m.UserID,
		Amount:     m.Amount,
		Reason:     m.Reason,
		DateIssued: m.DateIssued,
		DatePaid:   m.DatePaid,
		Status:     domain.FineStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toFineModel(f *domain.Fine) fineModel {
	return fineModel{
		ID:         f.ID,
		CheckoutID: f.CheckoutID,
		UserID:     f.UserID,
		Amount:     f.Amount,
		Reason:     f.Reason,
		DateIssued: f.DateIssued,
		DatePaid:   f.DatePaid,
		Status:     string(f.Status),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// FineDetails is a fine row joined with the book it originated from.
type FineDetails struct {
	ID         int64      `json:"id"`
	CheckoutID int64      `json:"checkout_id"`
	UserID     int64      `json:"user_id"`
	Amount     float64    `json:"amount"`
	Reason     string     `json:"reason"`
	DateIssued time.Time  `json:"date_issued"`
	DatePaid   *time.Time `json:"date_paid,omitempty"`
	Status     string     `json:"status"`

	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`

	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

func (r *FineRepository) GetByID(ctx context.Context, id int64) (*domain.Fine, error) {
	var m fineModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainFine(m), nil
}

func (r *FineRepository) ListByUser(ctx context.Context, userID int64) ([]FineDetails, error) {
	var rows []FineDetails
	q := `
SELECT f.id, f.checkout_id, f.user_id, f.amount, f.reason, f.date_issued,
       f.date_paid, f.status,
       b.title AS book_title, b.author AS book_author
FROM fines f
JOIN checkouts c ON c.id = f.checkout_id
JOIN books b ON b.id = c.book_id
WHERE f.user_id = ?
ORDER BY f.date_issued DESC
`
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *FineRepository) ListAll(ctx context.Context, status string) ([]FineDetails, error) {
	var rows []FineDetails
	q := `
SELECT f.id, f.checkout_id, f.user_id, f.amount, f.reason, f.date_issued,
       f.date_paid, f.status,
       b.title AS book_title, b.author AS book_author,
       u.email AS user_email,
       u.first_name || ' ' || u.last_name AS user_name
FROM fines f
JOIN checkouts c ON c.id = f.checkout_id
JOIN books b ON b.id = c.book_id
JOIN users u ON u.id = f.user_id
`
	args := []any{}
	if status != "" {
		q += "WHERE f.status = ?\n"
		args = append(args, status)
	}
	q += "ORDER BY f.date_issued DESC"

	tx := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// MarkPaid flips a pending fine to paid. RowsAffected 0 means the fine was
// not pending; the caller decides whether that is not-found or already-paid.
func (r *FineRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&fineModel{}).
		Where("id = ? AND status = ?", id, string(domain.FinePending)).
		Updates(map[string]any{
			"status":     string(domain.FinePaid),
			"date_paid":  paidAt,
			"updated_at": paidAt,
		})
	return res.RowsAffected, res.Error
}
