package circulation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris/internal/domain"
	"libris/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the circulation endpoints behind the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, employeeOnly gin.HandlerFunc) {
	rg.POST("/checkouts", h.Checkout)
	rg.POST("/checkouts/:id/return", h.Return)
	rg.POST("/checkouts/:id/renew", h.Renew)
	rg.GET("/checkouts/my", h.MyCheckouts)
	rg.GET("/checkouts", employeeOnly, h.AllCheckouts)
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	checkout, err := h.service.Checkout(
		c.Request.Context(),
		req.BookID,
		c.GetInt64("user_id"),
		domain.UserRole(c.GetString("role")),
		req.UserID,
	)
	if err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case ErrNoCopiesAvailable:
			response.Error(c, http.StatusConflict, "NO_COPIES_AVAILABLE", "No copies available")
		case ErrDuplicateCheckout:
			response.Error(c, http.StatusConflict, "DUPLICATE_CHECKOUT", "You already have this book checked out")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only employees can check out on behalf of a customer")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check out book")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"checkout": checkout})
}

func (h *Handler) Return(c *gin.Context) {
	checkoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid checkout ID")
		return
	}

	fine, err := h.service.Return(
		c.Request.Context(),
		checkoutID,
		c.GetInt64("user_id"),
		domain.UserRole(c.GetString("role")),
	)
	if err != nil {
		switch err {
		case ErrCheckoutNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Checkout not found")
		case ErrAlreadyReturned:
			response.Error(c, http.StatusConflict, "ALREADY_RETURNED", "Book already returned")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized to return this book")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to return book")
		}
		return
	}

	data := gin.H{"returned": true}
	if fine != nil {
		data["fine"] = fine
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) Renew(c *gin.Context) {
	checkoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid checkout ID")
		return
	}

	checkout, err := h.service.Renew(c.Request.Context(), checkoutID, c.GetInt64("user_id"))
	if err != nil {
		switch err {
		case ErrCheckoutNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Checkout not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized to renew this book")
		case ErrNotActive:
			response.Error(c, http.StatusConflict, "ALREADY_RETURNED", "Cannot renew a returned book")
		case ErrRenewalLimit:
			response.Error(c, http.StatusConflict, "RENEWAL_LIMIT_REACHED", "Maximum renewals reached")
		case ErrBookReserved:
			response.Error(c, http.StatusConflict, "BOOK_RESERVED", "Cannot renew - book is reserved by another user")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to renew book")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checkout": checkout})
}

func (h *Handler) MyCheckouts(c *gin.Context) {
	rows, err := h.service.MyCheckouts(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list checkouts")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checkouts": rows})
}

func (h *Handler) AllCheckouts(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != string(domain.CheckoutActive) && status != string(domain.CheckoutReturned) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter")
		return
	}

	rows, err := h.service.AllCheckouts(c.Request.Context(), status)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list checkouts")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checkouts": rows})
}
