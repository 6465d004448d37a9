package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"
)

// MockBorrowingService mocks the BorrowingService interface
type MockBorrowingService struct {
	mock.Mock
}

func (m *MockBorrowingService) Borrow(ctx context.Context, bookID, userID int64, notes string) (*models.Borrowing, error) {
	args := m.Called(ctx, bookID, userID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrowing), args.Error(1)
}

func (m *MockBorrowingService) Return(ctx context.Context, borrowingID int64) (*models.Borrowing, error) {
	args := m.Called(ctx, borrowingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrowing), args.Error(1)
}

func (m *MockBorrowingService) Renew(ctx context.Context, borrowingID int64) (*models.Borrowing, error) {
	args := m.Called(ctx, borrowingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrowing), args.Error(1)
}

func (m *MockBorrowingService) ListAll(ctx context.Context, page repository.PageRequest) ([]models.Borrowing, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Borrowing), args.Get(1).(int64), args.Error(2)
}

func (m *MockBorrowingService) ListByUser(ctx context.Context, userID int64, page repository.PageRequest) ([]models.Borrowing, int64, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Borrowing), args.Get(1).(int64), args.Error(2)
}

func (m *MockBorrowingService) ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrowing), args.Error(1)
}

func (m *MockBorrowingService) ListOverdue(ctx context.Context) ([]models.Borrowing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrowing), args.Error(1)
}

func (m *MockBorrowingService) ListActive(ctx context.Context) ([]models.Borrowing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrowing), args.Error(1)
}

func (m *MockBorrowingService) Stats(ctx context.Context) (*service.BorrowingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BorrowingStats), args.Error(1)
}

func setupBorrowingRouter(svc service.BorrowingService, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	rg := router.Group("/api/borrowings", func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	})
	NewBorrowingHandler(svc).RegisterRoutes(rg)
	return router
}

func borrowRequestBody(bookID, userID int64) []byte {
	body, _ := json.Marshal(dto.BorrowRequest{BookID: bookID, UserID: userID, Notes: "holiday"})
	return body
}

func TestBorrowBook_Success(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	now := time.Now()
	borrowing := &models.Borrowing{
		ID:         1,
		BookID:     3,
		UserID:     2,
		BorrowDate: now,
		DueDate:    now.Add(30 * 24 * time.Hour),
		Status:     models.StatusBorrowed,
	}
	mockSvc.On("Borrow", mock.Anything, int64(3), int64(2), "holiday").Return(borrowing, nil)

	req, _ := http.NewRequest("POST", "/api/borrowings", bytes.NewBuffer(borrowRequestBody(3, 2)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.Borrowing
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, models.StatusBorrowed, response.Status)
	mockSvc.AssertExpectations(t)
}

func TestBorrowBook_InsufficientStock(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	mockSvc.On("Borrow", mock.Anything, int64(3), int64(2), "holiday").
		Return(nil, service.ErrInsufficientStock)

	req, _ := http.NewRequest("POST", "/api/borrowings", bytes.NewBuffer(borrowRequestBody(3, 2)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBorrowBook_BookNotFound(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	mockSvc.On("Borrow", mock.Anything, int64(99), int64(2), "holiday").
		Return(nil, service.ErrBookNotFound)

	req, _ := http.NewRequest("POST", "/api/borrowings", bytes.NewBuffer(borrowRequestBody(99, 2)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestBorrowBook_MissingRole(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, "")

	req, _ := http.NewRequest("POST", "/api/borrowings", bytes.NewBuffer(borrowRequestBody(3, 2)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Borrow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReturnBook_Success(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	now := time.Now()
	borrowing := &models.Borrowing{ID: 1, Status: models.StatusReturned, ReturnDate: &now}
	mockSvc.On("Return", mock.Anything, int64(1)).Return(borrowing, nil)

	req, _ := http.NewRequest("PUT", "/api/borrowings/1/return", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.Borrowing
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, models.StatusReturned, response.Status)
	mockSvc.AssertExpectations(t)
}

func TestReturnBook_NotFound(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	mockSvc.On("Return", mock.Anything, int64(99)).Return(nil, service.ErrBorrowingNotFound)

	req, _ := http.NewRequest("PUT", "/api/borrowings/99/return", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReturnBook_AlreadyReturned(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	mockSvc.On("Return", mock.Anything, int64(1)).Return(nil, service.ErrAlreadyReturned)

	req, _ := http.NewRequest("PUT", "/api/borrowings/1/return", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRenewBook_Success(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	borrowing := &models.Borrowing{ID: 1, Status: models.StatusBorrowed, DueDate: time.Now().Add(45 * 24 * time.Hour)}
	mockSvc.On("Renew", mock.Anything, int64(1)).Return(borrowing, nil)

	req, _ := http.NewRequest("PUT", "/api/borrowings/1/renew", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRenewBook_ReturnedLoan(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	mockSvc.On("Renew", mock.Anything, int64(1)).Return(nil, service.ErrCannotRenew)

	req, _ := http.NewRequest("PUT", "/api/borrowings/1/renew", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestListBorrowings_DefaultsToDescending(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	expectedPage := repository.PageRequest{Page: 0, Size: 20, SortBy: "id", SortDir: "desc"}
	mockSvc.On("ListAll", mock.Anything, expectedPage).Return([]models.Borrowing{}, int64(0), nil)

	req, _ := http.NewRequest("GET", "/api/borrowings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestListBorrowingsByUser(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	borrowings := []models.Borrowing{{ID: 1, UserID: 2}}
	mockSvc.On("ListByUser", mock.Anything, int64(2), mock.AnythingOfType("repository.PageRequest")).
		Return(borrowings, int64(1), nil)

	req, _ := http.NewRequest("GET", "/api/borrowings/user/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PageResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(1), response.TotalElements)
	mockSvc.AssertExpectations(t)
}

func TestBorrowingStats(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	stats := &service.BorrowingStats{
		TotalBorrowings:    10,
		ActiveBorrowings:   4,
		OverdueBorrowings:  2,
		ReturnedBorrowings: 6,
	}
	mockSvc.On("Stats", mock.Anything).Return(stats, nil)

	req, _ := http.NewRequest("GET", "/api/borrowings/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]int64
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(10), response["totalBorrowings"])
	assert.Equal(t, int64(4), response["activeBorrowings"])
	assert.Equal(t, int64(2), response["overdueBorrowings"])
	assert.Equal(t, int64(6), response["returnedBorrowings"])
	mockSvc.AssertExpectations(t)
}

func TestListOverdueBorrowings(t *testing.T) {
	mockSvc := new(MockBorrowingService)
	router := setupBorrowingRouter(mockSvc, models.RoleReader)

	overdue := []models.Borrowing{{ID: 1, Status: models.StatusBorrowed}}
	mockSvc.On("ListOverdue", mock.Anything).Return(overdue, nil)

	req, _ := http.NewRequest("GET", "/api/borrowings/overdue", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
