package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libris/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the upload endpoint behind the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.Upload)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing file field")
		return
	}

	u, err := h.service.Store(c.Request.Context(), c.GetInt64("user_id"), fileHeader)
	if err != nil {
		switch err {
		case ErrEmptyFile:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File is empty")
		case ErrFileTooLarge:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File is too large")
		case ErrInvalidMimeType:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported file type")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store file")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"upload": gin.H{
			"id":  u.ID,
			"url": u.FileURL,
		},
	})
}
