package dto

// BorrowRequest: payload for POST /api/borrowings
type BorrowRequest struct {
	BookID int64  `json:"bookId" binding:"required"`
	UserID int64  `json:"userId" binding:"required"`
	Notes  string `json:"notes" binding:"max=500"`
}
