package models

import "time"

// Borrowing status values. OVERDUE is intentionally absent: overdue-ness is
// derived from due_date at query time while status stays BORROWED.
const (
	StatusBorrowed = "BORROWED"
	StatusReturned = "RETURNED"
)

type Borrowing struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID     int64      `json:"bookId" gorm:"not null;index"`
	UserID     int64      `json:"userId" gorm:"not null;index"`
	BorrowDate time.Time  `json:"borrowDate" gorm:"not null"`
	DueDate    time.Time  `json:"dueDate" gorm:"not null"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     string     `json:"status" gorm:"size:20;not null;index"`
	Notes      string     `json:"notes,omitempty" gorm:"size:500"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Borrowing) TableName() string {
	return "borrowings"
}

// IsOverdue reports whether the loan is still open past its due date.
func (b *Borrowing) IsOverdue() bool {
	return b.Status == StatusBorrowed && time.Now().After(b.DueDate)
}
