package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/http-api/models"
)

// ErrStockDepleted is returned when the guarded stock decrement matches no
// row, i.e. a concurrent borrow took the last copy between the caller's
// stock check and the update.
var ErrStockDepleted = errors.New("book stock depleted")

var borrowingSortColumns = map[string]string{
	"id":         "id",
	"bookId":     "book_id",
	"userId":     "user_id",
	"borrowDate": "borrow_date",
	"dueDate":    "due_date",
	"returnDate": "return_date",
	"status":     "status",
}

type BorrowingRepository interface {
	// CreateWithStockDecrement atomically decrements the book's stock and
	// inserts the borrowing. Both happen or neither does.
	CreateWithStockDecrement(ctx context.Context, borrowing *models.Borrowing) error
	// SaveWithStockIncrement atomically increments the book's stock and
	// persists the updated borrowing (the return transition).
	SaveWithStockIncrement(ctx context.Context, borrowing *models.Borrowing) error
	Save(ctx context.Context, borrowing *models.Borrowing) error
	FindByID(ctx context.Context, id int64) (*models.Borrowing, error)
	FindAll(ctx context.Context, page PageRequest) ([]models.Borrowing, int64, error)
	FindByUser(ctx context.Context, userID int64, page PageRequest) ([]models.Borrowing, int64, error)
	FindByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error)
	FindByStatus(ctx context.Context, status string) ([]models.Borrowing, error)
	FindOverdue(ctx context.Context, now time.Time) ([]models.Borrowing, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type borrowingRepository struct {
	db *gorm.DB
}

func NewBorrowingRepository(db *gorm.DB) BorrowingRepository {
	return &borrowingRepository{db: db}
}

func (r *borrowingRepository) CreateWithStockDecrement(ctx context.Context, borrowing *models.Borrowing) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded decrement: the stock_quantity > 0 predicate keeps the
		// counter from going negative under concurrent borrows.
		res := tx.Model(&models.Book{}).
			Where("id = ? AND stock_quantity > 0", borrowing.BookID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStockDepleted
		}

		if err := tx.Create(borrowing).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStockDepleted) {
			return ErrStockDepleted
		}
		return fmt.Errorf("create borrowing: %w", err)
	}
	return r.preloadRefs(ctx, borrowing)
}

func (r *borrowingRepository) SaveWithStockIncrement(ctx context.Context, borrowing *models.Borrowing) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ?", borrowing.BookID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + 1"))
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Omit("Book", "User").Save(borrowing).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("return borrowing: %w", err)
	}
	return r.preloadRefs(ctx, borrowing)
}

func (r *borrowingRepository) Save(ctx context.Context, borrowing *models.Borrowing) error {
	if err := r.db.WithContext(ctx).Omit("Book", "User").Save(borrowing).Error; err != nil {
		return fmt.Errorf("save borrowing: %w", err)
	}
	return nil
}

// preloadRefs refreshes the Book and User associations after a write so
// responses carry the current stock numbers.
func (r *borrowingRepository) preloadRefs(ctx context.Context, borrowing *models.Borrowing) error {
	return r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		First(borrowing, borrowing.ID).Error
}

func (r *borrowingRepository) FindByID(ctx context.Context, id int64) (*models.Borrowing, error) {
	var b models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *borrowingRepository) FindAll(ctx context.Context, page PageRequest) ([]models.Borrowing, int64, error) {
	order, err := orderClause(borrowingSortColumns, page.SortBy, page.SortDir)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Borrowing{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Order(order).
		Limit(page.Size).
		Offset(page.offset()).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *borrowingRepository) FindByUser(ctx context.Context, userID int64, page PageRequest) ([]models.Borrowing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Borrowing{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("user_id = ?", userID).
		Order("borrow_date desc").
		Limit(page.Size).
		Offset(page.offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list borrowings by user: %w", err)
	}
	return list, total, nil
}

func (r *borrowingRepository) FindByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	var list []models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("book_id = ?", bookID).
		Order("borrow_date desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrowings by book: %w", err)
	}
	return list, nil
}

func (r *borrowingRepository) FindByStatus(ctx context.Context, status string) ([]models.Borrowing, error) {
	var list []models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("status = ?", status).
		Order("borrow_date desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list borrowings by status: %w", err)
	}
	return list, nil
}

func (r *borrowingRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Borrowing, error) {
	var list []models.Borrowing
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("status = ? AND due_date < ?", models.StatusBorrowed, now).
		Order("due_date asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list overdue borrowings: %w", err)
	}
	return list, nil
}

func (r *borrowingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Borrowing{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *borrowingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Borrowing{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *borrowingRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Borrowing{}).
		Where("status = ? AND due_date < ?", models.StatusBorrowed, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
