package circulation

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrDuplicateCheckout = errors.New("book already checked out by this user")
	ErrCheckoutNotFound  = errors.New("checkout not found")
	ErrAlreadyReturned   = errors.New("book already returned")
	ErrNotActive         = errors.New("checkout is not active")
	ErrRenewalLimit      = errors.New("maximum renewals reached")
	ErrBookReserved      = errors.New("book is reserved by another user")
	ErrForbidden         = errors.New("forbidden")
)
