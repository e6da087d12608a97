package reservation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libris/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type reserveRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

// RegisterRoutes mounts the reservation endpoints behind the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.Reserve)
	rg.POST("/reservations/:id/cancel", h.Cancel)
	rg.GET("/reservations/my", h.MyReservations)
}

func (h *Handler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Reserve(c.Request.Context(), req.BookID, c.GetInt64("user_id"))
	if err != nil {
		switch err {
		case ErrBookNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case ErrBookAvailable:
			response.Error(c, http.StatusConflict, "BOOK_AVAILABLE", "Book is available - no need to reserve")
		case ErrDuplicateReservation:
			response.Error(c, http.StatusConflict, "DUPLICATE_RESERVATION", "You already have this book reserved")
		case ErrDuplicateCheckout:
			response.Error(c, http.StatusConflict, "DUPLICATE_CHECKOUT", "You already have this book checked out")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reserve book")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservation": res})
}

func (h *Handler) Cancel(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), reservationID, c.GetInt64("user_id")); err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not authorized to cancel this reservation")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel reservation")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) MyReservations(c *gin.Context) {
	rows, err := h.service.MyReservations(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reservations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": rows})
}
