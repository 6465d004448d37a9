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

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Read routes (any authenticated user)
	rg.GET("", h.List)
	rg.GET("/count", h.Count)
	rg.GET("/search", h.Search)
	rg.GET("/search/title", h.SearchByTitle)
	rg.GET("/search/author", h.SearchByAuthor)
	rg.GET("/search/publisher", h.SearchByPublisher)
	rg.GET("/isbn/:isbn", h.GetByISBN)
	rg.GET("/:id", h.Get)

	// Admin-only routes
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.PUT("/:id", middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

// pageRequest parses the shared pagination query params. Page index is
// zero-based; the page size is capped at 100.
func pageRequest(c *gin.Context, defaultSortDir string) repository.PageRequest {
	page := 0
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed >= 0 {
			page = parsed
		}
	}

	size := 20
	if s := c.Query("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}

	sortBy := c.DefaultQuery("sortBy", "id")
	sortDir := c.DefaultQuery("sortDir", defaultSortDir)

	return repository.PageRequest{Page: page, Size: size, SortBy: sortBy, SortDir: sortDir}
}

func (h *BookHandler) List(c *gin.Context) {
	page := pageRequest(c, "asc")

	books, total, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sortBy field"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(books, total, page.Page, page.Size))
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	book, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) GetByISBN(c *gin.Context) {
	book, err := h.svc.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Search(c *gin.Context) {
	filters := repository.BookSearchFilters{
		Title:     c.Query("title"),
		Author:    c.Query("author"),
		Publisher: c.Query("publisher"),
		ISBN:      c.Query("isbn"),
	}
	page := pageRequest(c, "asc")

	books, total, err := h.svc.Search(c.Request.Context(), filters, page)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sortBy field"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(books, total, page.Page, page.Size))
}

func (h *BookHandler) SearchByTitle(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	books, err := h.svc.SearchByTitle(c.Request.Context(), title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) SearchByAuthor(c *gin.Context) {
	author := c.Query("author")
	if author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author query parameter is required"})
		return
	}

	books, err := h.svc.SearchByAuthor(c.Request.Context(), author)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) SearchByPublisher(c *gin.Context) {
	publisher := c.Query("publisher")
	if publisher == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publisher query parameter is required"})
		return
	}

	books, err := h.svc.SearchByPublisher(c.Request.Context(), publisher)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book := req.ToModel()
	if err := h.svc.Create(c.Request.Context(), &book); err != nil {
		if errors.Is(err, service.ErrISBNExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "isbn already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details := req.ToModel()
	book, err := h.svc.Update(c.Request.Context(), id, &details)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrISBNExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "isbn already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) Count(c *gin.Context) {
	count, err := h.svc.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, count)
}
