package fine

import "errors"

var (
	ErrNotFound    = errors.New("fine not found")
	ErrAlreadyPaid = errors.New("fine already paid")
	ErrForbidden   = errors.New("forbidden")
)
