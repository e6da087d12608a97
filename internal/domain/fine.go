package domain

import "time"

type FineStatus string

const (
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
)

type Fine struct {
	ID         int64      `json:"id"`
	CheckoutID int64      `json:"checkout_id" validate:"required"`
	UserID     int64      `json:"user_id" validate:"required"`
	Amount     float64    `json:"amount" validate:"gte=0"`
	Reason     string     `json:"reason"`
	DateIssued time.Time  `json:"date_issued"`
	DatePaid   *time.Time `json:"date_paid,omitempty"`
	Status     FineStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
