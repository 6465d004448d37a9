package models

type Book struct {
	ID            int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	ISBN          string  `json:"isbn" gorm:"uniqueIndex;size:20;not null"`
	Title         string  `json:"title" gorm:"size:200;not null"`
	Author        string  `json:"author" gorm:"size:100;not null"`
	Publisher     string  `json:"publisher" gorm:"size:100;not null"`
	PublishYear   int     `json:"publishYear" gorm:"not null"`
	Price         float64 `json:"price" gorm:"not null"`
	StockQuantity int     `json:"stockQuantity" gorm:"not null"`
	Description   string  `json:"description,omitempty" gorm:"size:500"`
}

func (Book) TableName() string {
	return "books"
}
