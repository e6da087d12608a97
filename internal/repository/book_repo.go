package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"libris/internal/domain"
)

// ErrNoAvailableCopies signals that the conditional availability decrement
// found no copy to take; the transaction that saw it must roll back.
var ErrNoAvailableCopies = errors.New("no available copies")

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

type BookFilters struct {
	Search string
	Genre  string
	Limit  int
	Offset int
}

type bookModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Title           string    `gorm:"column:title"`
	Author          string    `gorm:"column:author"`
	ISBN            string    `gorm:"column:isbn"`
	Genre           string    `gorm:"column:genre"`
	Description     *string   `gorm:"column:description"`
	PublishedYear   int       `gorm:"column:published_year"`
	TotalCopies     int       `gorm:"column:total_copies"`
	AvailableCopies int       `gorm:"column:available_copies"`
	CoverUploadID   *string   `gorm:"column:cover_upload_id"`
	AddedBy         int64     `gorm:"column:added_by"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (bookModel) TableName() string { return "books" }

func toDomainBook(m bookModel) *domain.Book {
	var description string
	if m.Description != nil {
		description = *m.Description
	}

	return &domain.Book{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		ISBN:            m.ISBN,
		Genre:           m.Genre,
		Description:     description,
		PublishedYear:   m.PublishedYear,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		CoverUploadID:   m.CoverUploadID,
		AddedBy:         m.AddedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBookModel(b *domain.Book) bookModel {
	var description *string
	if b.Description != "" {
		v := b.Description
		description = &v
	}

	return bookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Genre:           b.Genre,
		Description:     description,
		PublishedYear:   b.PublishedYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CoverUploadID:   b.CoverUploadID,
		AddedBy:         b.AddedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBook(m)
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var m bookModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBook(m), nil
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBook(m)
	return nil
}

func (r *BookRepository) List(ctx context.Context, f BookFilters) ([]domain.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&bookModel{})

	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+f.Search+"%")
	}
	if f.Genre != "" {
		q = q.Where("genre = ?", f.Genre)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []bookModel
	tx := q.Order("title").Limit(f.Limit).Offset(f.Offset).Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.Book, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBook(m))
	}
	return out, total, nil
}

func (r *BookRepository) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	tx := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Distinct("genre").
		Where("genre <> ''").
		Order("genre").
		Pluck("genre", &genres)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return genres, nil
}

// takeCopy decrements available_copies only while a copy remains. Runs on the
// caller's transaction handle; the guard is what keeps two checkouts from
// both taking the last copy.
func takeCopy(tx *gorm.DB, bookID int64) error {
	res := tx.Exec(
		`UPDATE books SET available_copies = available_copies - 1, updated_at = ?
		 WHERE id = ? AND available_copies > 0`,
		time.Now().UTC(), bookID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoAvailableCopies
	}
	return nil
}

// returnCopy increments available_copies, clamped so available never passes
// total even if a return races a shrinking total_copies update.
func returnCopy(tx *gorm.DB, bookID int64) error {
	return tx.Exec(
		`UPDATE books SET available_copies = available_copies + 1, updated_at = ?
		 WHERE id = ? AND available_copies < total_copies`,
		time.Now().UTC(), bookID,
	).Error
}
