package dto

import "libraryhub/internal/http-api/models"

// BookRequest used for POST /api/books and PUT /api/books/:id.
// Price and StockQuantity are pointers so that zero values still satisfy
// the required binding.
type BookRequest struct {
	ISBN          string   `json:"isbn" binding:"required,max=20"`
	Title         string   `json:"title" binding:"required,max=200"`
	Author        string   `json:"author" binding:"required,max=100"`
	Publisher     string   `json:"publisher" binding:"required,max=100"`
	PublishYear   int      `json:"publishYear" binding:"required"`
	Price         *float64 `json:"price" binding:"required,gte=0"`
	StockQuantity *int     `json:"stockQuantity" binding:"required,gte=0"`
	Description   string   `json:"description" binding:"max=500"`
}

func (d BookRequest) ToModel() models.Book {
	return models.Book{
		ISBN:          d.ISBN,
		Title:         d.Title,
		Author:        d.Author,
		Publisher:     d.Publisher,
		PublishYear:   d.PublishYear,
		Price:         *d.Price,
		StockQuantity: *d.StockQuantity,
		Description:   d.Description,
	}
}

// PageResponse mirrors the paged envelope the original API exposed, so
// existing clients keep working: content plus totalElements/totalPages.
type PageResponse struct {
	Content       any   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func NewPageResponse(content any, total int64, page, size int) PageResponse {
	totalPages := int64(0)
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	return PageResponse{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
	}
}
