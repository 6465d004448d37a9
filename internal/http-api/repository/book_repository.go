package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"libraryhub/internal/http-api/models"
)

// bookSortColumns is the allow-list of sortable book fields, keyed by the
// API-level field name.
var bookSortColumns = map[string]string{
	"id":            "id",
	"isbn":          "isbn",
	"title":         "title",
	"author":        "author",
	"publisher":     "publisher",
	"publishYear":   "publish_year",
	"price":         "price",
	"stockQuantity": "stock_quantity",
}

// BookSearchFilters holds the optional multi-field search conditions.
// Empty fields impose no constraint; set fields combine with AND.
type BookSearchFilters struct {
	Title     string
	Author    string
	Publisher string
	ISBN      string
}

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	FindAll(ctx context.Context, page PageRequest) ([]models.Book, int64, error)
	Search(ctx context.Context, filters BookSearchFilters, page PageRequest) ([]models.Book, int64, error)
	FindByTitleLike(ctx context.Context, title string) ([]models.Book, error)
	FindByAuthorLike(ctx context.Context, author string) ([]models.Book, error)
	FindByPublisherLike(ctx context.Context, publisher string) ([]models.Book, error)
	Count(ctx context.Context) (int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM populates book.ID
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("isbn = ?", isbn).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookRepository) FindAll(ctx context.Context, page PageRequest) ([]models.Book, int64, error) {
	order, err := orderClause(bookSortColumns, page.SortBy, page.SortDir)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Book
	if err := r.db.WithContext(ctx).
		Order(order).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *bookRepository) Search(ctx context.Context, filters BookSearchFilters, page PageRequest) ([]models.Book, int64, error) {
	order, err := orderClause(bookSortColumns, page.SortBy, page.SortDir)
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.Book{})
	if t := strings.TrimSpace(filters.Title); t != "" {
		query = query.Where("title ILIKE ?", "%"+t+"%")
	}
	if a := strings.TrimSpace(filters.Author); a != "" {
		query = query.Where("author ILIKE ?", "%"+a+"%")
	}
	if p := strings.TrimSpace(filters.Publisher); p != "" {
		query = query.Where("publisher ILIKE ?", "%"+p+"%")
	}
	if i := strings.TrimSpace(filters.ISBN); i != "" {
		// ISBN filter is an exact match
		query = query.Where("isbn = ?", i)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Book
	if err := query.
		Order(order).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("search books: %w", err)
	}
	return list, total, nil
}

func (r *bookRepository) FindByTitleLike(ctx context.Context, title string) ([]models.Book, error) {
	return r.findByFieldLike(ctx, "title", title)
}

func (r *bookRepository) FindByAuthorLike(ctx context.Context, author string) ([]models.Book, error) {
	return r.findByFieldLike(ctx, "author", author)
}

func (r *bookRepository) FindByPublisherLike(ctx context.Context, publisher string) ([]models.Book, error) {
	return r.findByFieldLike(ctx, "publisher", publisher)
}

// findByFieldLike does a case-insensitive substring match on a single column.
// Callers only pass fixed column names, never user input.
func (r *bookRepository) findByFieldLike(ctx context.Context, column, value string) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Where(column+" ILIKE ?", "%"+value+"%").
		Order("id asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search books by %s: %w", column, err)
	}
	return list, nil
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
