package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"libris/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public browsing endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books", h.ListBooks)
	rg.GET("/books/:id", h.GetBook)
	rg.GET("/genres", h.Genres)
}

// RegisterEmployeeRoutes mounts the catalog mutation endpoints.
func (h *Handler) RegisterEmployeeRoutes(rg *gin.RouterGroup) {
	rg.POST("/books", h.CreateBook)
	rg.PATCH("/books/:id", h.UpdateBook)
}

func (h *Handler) ListBooks(c *gin.Context) {
	var q ListBooksQuery
	q.Search = c.Query("search")
	q.Genre = c.Query("genre")

	q.Limit = defaultListLimit
	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= 100 {
			q.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			q.Offset = (val - 1) * q.Limit
		}
	}

	books, total, err := h.service.ListBooks(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list books")
		return
	}

	totalPages := (int(total) + q.Limit - 1) / q.Limit
	currentPage := (q.Offset / q.Limit) + 1

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"books": books,
			"pagination": gin.H{
				"page":        currentPage,
				"limit":       q.Limit,
				"total":       total,
				"total_pages": totalPages,
			},
		},
	})
}

func (h *Handler) GetBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid book ID")
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load book")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": book})
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create book")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"book": book})
}

func (h *Handler) UpdateBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid book ID")
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), bookID, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update book")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": book})
}

func (h *Handler) Genres(c *gin.Context) {
	genres, err := h.service.Genres(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list genres")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"genres": genres})
}
