package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	BookID          int64     `gorm:"column:book_id"`
	UserID          int64     `gorm:"column:user_id"`
	ReservationDate time.Time `gorm:"column:reservation_date"`
	ExpiryDate      time.Time `gorm:"column:expiry_date"`
	Status          string    `gorm:"column:status"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	return &domain.Reservation{
		ID:              m.ID,
		BookID:          m.BookID,
		UserID:          m.UserID,
		ReservationDate: m.ReservationDate,
		ExpiryDate:      m.ExpiryDate,
		Status:          domain.ReservationStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ReservationDetails is a reservation row joined with its book.
type ReservationDetails struct {
	ID              int64     `json:"id"`
	BookID          int64     `json:"book_id"`
	UserID          int64     `json:"user_id"`
	ReservationDate time.Time `json:"reservation_date"`
	ExpiryDate      time.Time `json:"expiry_date"`
	Status          string    `json:"status"`

	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	BookISBN   string `json:"book_isbn"`
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	m := reservationModel{
		BookID:          res.BookID,
		UserID:          res.UserID,
		ReservationDate: res.ReservationDate,
		ExpiryDate:      res.ExpiryDate,
		Status:          string(res.Status),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// FindActiveByUserAndBook returns (nil, nil) when the user holds no active
// reservation for the book.
func (r *ReservationRepository) FindActiveByUserAndBook(ctx context.Context, userID, bookID int64) (*domain.Reservation, error) {
	var ms []reservationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, string(domain.ReservationActive)).
		Limit(1).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(ms) == 0 {
		return nil, nil
	}
	return toDomainReservation(ms[0]), nil
}

// HasActiveForBook reports whether any user holds an active reservation for
// the book. Renewals are blocked while this is true.
func (r *ReservationRepository) HasActiveForBook(ctx context.Context, bookID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("book_id = ? AND status = ?", bookID, string(domain.ReservationActive)).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *ReservationRepository) ListActiveByUser(ctx context.Context, userID int64) ([]ReservationDetails, error) {
	var rows []ReservationDetails
	q := `
SELECT r.id, r.book_id, r.user_id, r.reservation_date, r.expiry_date, r.status,
       b.title AS book_title, b.author AS book_author, b.isbn AS book_isbn
FROM reservations r
JOIN books b ON b.id = r.book_id
WHERE r.user_id = ? AND r.status = 'active'
ORDER BY r.reservation_date
`
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	return r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()}).
		Error
}

// CancelExpired sweeps active reservations whose expiry has passed. Used by
// the offline cleanup job, never by request handling.
func (r *ReservationRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("status = ? AND expiry_date < ?", string(domain.ReservationActive), now).
		Updates(map[string]any{"status": string(domain.ReservationCancelled), "updated_at": now})
	return res.RowsAffected, res.Error
}
