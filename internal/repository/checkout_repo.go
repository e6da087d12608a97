package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
)

type CheckoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

type checkoutModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	BookID       int64      `gorm:"column:book_id"`
	UserID       int64      `gorm:"column:user_id"`
	CheckoutDate time.Time  `gorm:"column:checkout_date"`
	DueDate      time.Time  `gorm:"column:due_date"`
	ReturnDate   *time.Time `gorm:"column:return_date"`
	Status       string     `gorm:"column:status"`
	RenewalCount int        `gorm:"column:renewal_count"`
	CheckedOutBy *int64     `gorm:"column:checked_out_by"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (checkoutModel) TableName() string { return "checkouts" }

func toDomainCheckout(m checkoutModel) *domain.Checkout {
	return &domain.Checkout{
		ID:           m.ID,
		BookID:       m.BookID,
		UserID:       m.UserID,
		CheckoutDate: m.CheckoutDate,
		DueDate:      m.DueDate,
		ReturnDate:   m.ReturnDate,
		Status:       domain.CheckoutStatus(m.Status),
		RenewalCount: m.RenewalCount,
		CheckedOutBy: m.CheckedOutBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// CheckoutDetails is a checkout row joined with its book, the shape the
// listing endpoints return.
type CheckoutDetails struct {
	ID           int64      `json:"id"`
	BookID       int64      `json:"book_id"`
	UserID       int64      `json:"user_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Status       string     `json:"status"`
	RenewalCount int        `json:"renewal_count"`
	CheckedOutBy *int64     `json:"checked_out_by,omitempty"`
	// Derived on read, never stored.
	Overdue bool `json:"overdue" gorm:"-"`

	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	BookISBN   string `json:"book_isbn"`

	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

// Checkout inserts the checkout, takes a copy off the shelf and fulfills the
// borrower's active reservation, all in one transaction.
func (r *CheckoutRepository) Checkout(ctx context.Context, bookID, userID int64, checkedOutBy *int64, now, due time.Time) (*domain.Checkout, error) {
	m := checkoutModel{
		BookID:       bookID,
		UserID:       userID,
		CheckoutDate: now,
		DueDate:      due,
		Status:       string(domain.CheckoutActive),
		RenewalCount: 0,
		CheckedOutBy: checkedOutBy,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := takeCopy(tx, bookID); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Model(&reservationModel{}).
			Where("book_id = ? AND user_id = ? AND status = ?", bookID, userID, string(domain.ReservationActive)).
			Updates(map[string]any{"status": string(domain.ReservationFulfilled), "updated_at": now}).
			Error
	})
	if err != nil {
		return nil, err
	}
	return toDomainCheckout(m), nil
}

// Return closes the checkout, puts the copy back and records the fine, if
// any, in one transaction.
func (r *CheckoutRepository) Return(ctx context.Context, checkoutID int64, returnedAt time.Time, fine *domain.Fine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m checkoutModel
		if err := tx.First(&m, checkoutID).Error; err != nil {
			return err
		}

		if err := tx.Model(&checkoutModel{}).
			Where("id = ?", checkoutID).
			Updates(map[string]any{
				"return_date": returnedAt,
				"status":      string(domain.CheckoutReturned),
				"updated_at":  returnedAt,
			}).Error; err != nil {
			return err
		}

		if err := returnCopy(tx, m.BookID); err != nil {
			return err
		}

		if fine != nil {
			fm := toFineModel(fine)
			if err := tx.Create(&fm).Error; err != nil {
				return err
			}
			*fine = *toDomainFine(fm)
		}
		return nil
	})
}

func (r *CheckoutRepository) Renew(ctx context.Context, checkoutID int64, newDue time.Time, newCount int) error {
	return r.db.WithContext(ctx).Model(&checkoutModel{}).
		Where("id = ?", checkoutID).
		Updates(map[string]any{
			"due_date":      newDue,
			"renewal_count": newCount,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *CheckoutRepository) GetByID(ctx context.Context, id int64) (*domain.Checkout, error) {
	var m checkoutModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCheckout(m), nil
}

// FindActiveByUserAndBook returns (nil, nil) when the user holds no
// non-returned checkout of the book.
func (r *CheckoutRepository) FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Checkout, error) {
	var ms []checkoutModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status <> ?", userID, bookID, string(domain.CheckoutReturned)).
		Limit(1).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(ms) == 0 {
		return nil, nil
	}
	return toDomainCheckout(ms[0]), nil
}

func (r *CheckoutRepository) ListByUser(ctx context.Context, userID int64) ([]CheckoutDetails, error) {
	var rows []CheckoutDetails
	q := `
SELECT c.id, c.book_id, c.user_id, c.checkout_date, c.due_date, c.return_date,
       c.status, c.renewal_count, c.checked_out_by,
       b.title AS book_title, b.author AS book_author, b.isbn AS book_isbn
FROM checkouts c
JOIN books b ON b.id = c.book_id
WHERE c.user_id = ? AND c.status <> 'returned'
ORDER BY c.due_date
`
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *CheckoutRepository) ListAll(ctx context.Context, status string) ([]CheckoutDetails, error) {
	var rows []CheckoutDetails
	q := `
SELECT c.id, c.book_id, c.user_id, c.checkout_date, c.due_date, c.return_date,
       c.status, c.renewal_count, c.checked_out_by,
       b.title AS book_title, b.author AS book_author, b.isbn AS book_isbn,
       u.email AS user_email,
       u.first_name || ' ' || u.last_name AS user_name
FROM checkouts c
JOIN books b ON b.id = c.book_id
JOIN users u ON u.id = c.user_id
`
	args := []any{}
	if status != "" {
		q += "WHERE c.status = ?\n"
		args = append(args, status)
	}
	q += "ORDER BY c.checkout_date DESC"

	tx := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}
