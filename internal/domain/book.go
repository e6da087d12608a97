package domain

import "time"

type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title" validate:"required"`
	Author          string    `json:"author" validate:"required"`
	ISBN            string    `json:"isbn"`
	Genre           string    `json:"genre"`
	Description     string    `json:"description,omitempty" gorm:"type:text"`
	PublishedYear   int       `json:"published_year"`
	TotalCopies     int       `json:"total_copies" validate:"gte=0"`
	AvailableCopies int       `json:"available_copies"`
	CoverUploadID   *string   `json:"cover_upload_id,omitempty"`
	AddedBy         int64     `json:"added_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Resolved from the upload store on read, never persisted.
	CoverURL string `json:"cover_url,omitempty" gorm:"-"`
}
