package reservation

import "errors"

var (
	ErrBookNotFound         = errors.New("book not found")
	ErrBookAvailable        = errors.New("book is available - no need to reserve")
	ErrDuplicateReservation = errors.New("book already reserved by this user")
	ErrDuplicateCheckout    = errors.New("book already checked out by this user")
	ErrNotFound             = errors.New("reservation not found")
	ErrForbidden            = errors.New("forbidden")
)
