package fine

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

// RegisterRoutes mounts the fine endpoints behind the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, employeeOnly gin.HandlerFunc) {
	rg.GET("/fines/my", h.MyFines)
	rg.GET("/fines", employeeOnly, h.AllFines)
	rg.POST("/fines/:id/pay", employeeOnly, h.Pay)
}

func (h *Handler) MyFines(c *gin.Context) {
	rows, err := h.service.MyFines(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list fines")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"fines": rows})
}

func (h *Handler) AllFines(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != string(domain.FinePending) && status != string(domain.FinePaid) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter")
		return
	}

	rows, err := h.service.AllFines(c.Request.Context(), status)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list fines")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"fines": rows})
}

func (h *Handler) Pay(c *gin.Context) {
	fineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid fine ID")
		return
	}

	f, err := h.service.Pay(c.Request.Context(), fineID, domain.UserRole(c.GetString("role")))
	if err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Fine not found")
		case ErrAlreadyPaid:
			response.Error(c, http.StatusConflict, "ALREADY_PAID", "Fine already paid")
		case ErrForbidden:
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only employees can process fine payments")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to pay fine")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"fine": f})
}
