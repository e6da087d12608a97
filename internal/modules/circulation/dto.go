package circulation

type CheckoutRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
	// Set by an employee checking a book out on a customer's behalf;
	// defaults to the acting user.
	UserID *int64 `json:"user_id"`
}
