package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"
)

type BorrowingHandler struct {
	svc service.BorrowingService
}

func NewBorrowingHandler(svc service.BorrowingService) *BorrowingHandler {
	return &BorrowingHandler{svc: svc}
}

func (h *BorrowingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/user/:userId", h.ListByUser)
	rg.GET("/book/:bookId", h.ListByBook)
	rg.GET("/overdue", h.ListOverdue)
	rg.GET("/active", h.ListActive)
	rg.GET("/stats", h.Stats)

	rg.POST("", middleware.RequireBorrower(), h.Borrow)
	rg.PUT("/:id/return", middleware.RequireBorrower(), h.Return)
	rg.PUT("/:id/renew", middleware.RequireBorrower(), h.Renew)
}

func (h *BorrowingHandler) List(c *gin.Context) {
	page := pageRequest(c, "desc")

	borrowings, total, err := h.svc.ListAll(c.Request.Context(), page)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sortBy field"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(borrowings, total, page.Page, page.Size))
}

func (h *BorrowingHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	page := pageRequest(c, "desc")

	borrowings, total, err := h.svc.ListByUser(c.Request.Context(), userID, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(borrowings, total, page.Page, page.Size))
}

func (h *BorrowingHandler) ListByBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	borrowings, err := h.svc.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

func (h *BorrowingHandler) ListOverdue(c *gin.Context) {
	borrowings, err := h.svc.ListOverdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

func (h *BorrowingHandler) ListActive(c *gin.Context) {
	borrowings, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

func (h *BorrowingHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *BorrowingHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	borrowing, err := h.svc.Borrow(c.Request.Context(), req.BookID, req.UserID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient book stock"})
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, borrowing)
}

func (h *BorrowingHandler) Return(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	borrowing, err := h.svc.Return(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBorrowingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "borrowing record not found"})
		case errors.Is(err, service.ErrAlreadyReturned):
			c.JSON(http.StatusBadRequest, gin.H{"error": "book already returned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, borrowing)
}

func (h *BorrowingHandler) Renew(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	borrowing, err := h.svc.Renew(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBorrowingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "borrowing record not found"})
		case errors.Is(err, service.ErrCannotRenew):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot renew a returned loan"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, borrowing)
}
