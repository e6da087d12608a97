package domain

import "time"

type CheckoutStatus string

const (
	CheckoutActive   CheckoutStatus = "active"
	CheckoutReturned CheckoutStatus = "returned"
)

type Checkout struct {
	ID           int64          `json:"id"`
	BookID       int64          `json:"book_id" validate:"required"`
	UserID       int64          `json:"user_id" validate:"required"`
	CheckoutDate time.Time      `json:"checkout_date"`
	DueDate      time.Time      `json:"due_date"`
	ReturnDate   *time.Time     `json:"return_date,omitempty"`
	Status       CheckoutStatus `json:"status"`
	RenewalCount int            `json:"renewal_count"`
	// Employee who processed the checkout; nil for self checkout.
	CheckedOutBy *int64    `json:"checked_out_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Overdue reports whether an active checkout is past due at the given instant.
func (c *Checkout) Overdue(now time.Time) bool {
	return c.Status == CheckoutActive && now.After(c.DueDate)
}
