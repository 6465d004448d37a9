package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

// Loan policy constants.
const (
	loanPeriod       = 30 * 24 * time.Hour
	renewalExtension = 15 * 24 * time.Hour
)

var (
	ErrBorrowingNotFound = errors.New("borrowing record not found")
	ErrInsufficientStock = errors.New("insufficient book stock")
	ErrAlreadyReturned   = errors.New("book already returned")
	ErrCannotRenew       = errors.New("cannot renew a returned loan")
)

// BorrowingStats aggregates loan counts computed at call time.
type BorrowingStats struct {
	TotalBorrowings    int64 `json:"totalBorrowings"`
	ActiveBorrowings   int64 `json:"activeBorrowings"`
	OverdueBorrowings  int64 `json:"overdueBorrowings"`
	ReturnedBorrowings int64 `json:"returnedBorrowings"`
}

type BorrowingService interface {
	Borrow(ctx context.Context, bookID, userID int64, notes string) (*models.Borrowing, error)
	Return(ctx context.Context, borrowingID int64) (*models.Borrowing, error)
	Renew(ctx context.Context, borrowingID int64) (*models.Borrowing, error)
	ListAll(ctx context.Context, page repository.PageRequest) ([]models.Borrowing, int64, error)
	ListByUser(ctx context.Context, userID int64, page repository.PageRequest) ([]models.Borrowing, int64, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error)
	ListOverdue(ctx context.Context) ([]models.Borrowing, error)
	ListActive(ctx context.Context) ([]models.Borrowing, error)
	Stats(ctx context.Context) (*BorrowingStats, error)
}

type borrowingService struct {
	repo     repository.BorrowingRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
}

func NewBorrowingService(
	repo repository.BorrowingRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
) BorrowingService {
	return &borrowingService{
		repo:     repo,
		bookRepo: bookRepo,
		userRepo: userRepo,
	}
}

func (s *borrowingService) Borrow(ctx context.Context, bookID, userID int64, notes string) (*models.Borrowing, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if book.StockQuantity <= 0 {
		return nil, ErrInsufficientStock
	}

	now := time.Now()
	borrowing := &models.Borrowing{
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: now,
		DueDate:    now.Add(loanPeriod),
		Status:     models.StatusBorrowed,
		Notes:      notes,
	}

	if err := s.repo.CreateWithStockDecrement(ctx, borrowing); err != nil {
		// The stock check above raced with another borrow; the guarded
		// decrement is the source of truth.
		if errors.Is(err, repository.ErrStockDepleted) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}
	return borrowing, nil
}

func (s *borrowingService) Return(ctx context.Context, borrowingID int64) (*models.Borrowing, error) {
	borrowing, err := s.repo.FindByID(ctx, borrowingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowingNotFound
		}
		return nil, err
	}
	if borrowing.Status != models.StatusBorrowed {
		return nil, ErrAlreadyReturned
	}

	now := time.Now()
	borrowing.ReturnDate = &now
	borrowing.Status = models.StatusReturned

	if err := s.repo.SaveWithStockIncrement(ctx, borrowing); err != nil {
		return nil, err
	}
	return borrowing, nil
}

func (s *borrowingService) Renew(ctx context.Context, borrowingID int64) (*models.Borrowing, error) {
	borrowing, err := s.repo.FindByID(ctx, borrowingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBorrowingNotFound
		}
		return nil, err
	}
	if borrowing.Status != models.StatusBorrowed {
		return nil, ErrCannotRenew
	}

	// The extension is applied to the current due date, not to now.
	borrowing.DueDate = borrowing.DueDate.Add(renewalExtension)

	if err := s.repo.Save(ctx, borrowing); err != nil {
		return nil, err
	}
	return borrowing, nil
}

func (s *borrowingService) ListAll(ctx context.Context, page repository.PageRequest) ([]models.Borrowing, int64, error) {
	return s.repo.FindAll(ctx, page)
}

func (s *borrowingService) ListByUser(ctx context.Context, userID int64, page repository.PageRequest) ([]models.Borrowing, int64, error) {
	return s.repo.FindByUser(ctx, userID, page)
}

func (s *borrowingService) ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	return s.repo.FindByBook(ctx, bookID)
}

func (s *borrowingService) ListOverdue(ctx context.Context) ([]models.Borrowing, error) {
	return s.repo.FindOverdue(ctx, time.Now())
}

func (s *borrowingService) ListActive(ctx context.Context) ([]models.Borrowing, error) {
	return s.repo.FindByStatus(ctx, models.StatusBorrowed)
}

func (s *borrowingService) Stats(ctx context.Context) (*BorrowingStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountByStatus(ctx, models.StatusBorrowed)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.CountOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	returned, err := s.repo.CountByStatus(ctx, models.StatusReturned)
	if err != nil {
		return nil, err
	}

	return &BorrowingStats{
		TotalBorrowings:    total,
		ActiveBorrowings:   active,
		OverdueBorrowings:  overdue,
		ReturnedBorrowings: returned,
	}, nil
}
