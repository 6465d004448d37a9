package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/middleware/auth"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already in use")
	ErrInvalidRole    = errors.New("invalid role")
)

// Default accounts ensured at startup.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
	defaultAdminEmail    = "admin@library.com"

	defaultReaderUsername = "reader"
	defaultReaderPassword = "reader123"
	defaultReaderEmail    = "reader@library.com"
)

type UserService interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Register(ctx context.Context, username, password, role, email string) (*models.User, error)
	// Save creates the user when ID is zero, otherwise updates the stored
	// record. On update, the incoming password is re-hashed only when it
	// differs from the stored hash, so passing the hash back unchanged
	// leaves it untouched.
	Save(ctx context.Context, user *models.User) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	EnsureDefaultAccounts(ctx context.Context) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Register(ctx context.Context, username, password, role, email string) (*models.User, error) {
	if role == "" {
		role = models.RoleReader
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: hashedPassword,
		Role:     role,
		Email:    email,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == 0 {
		return s.Register(ctx, user.Username, user.Password, user.Role, user.Email)
	}

	existing, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Edit-without-password-change flows pass the stored hash back; only a
	// differing value is treated as a new plaintext password.
	if user.Password != existing.Password {
		hashedPassword, err := auth.HashPassword(user.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.userRepo.ExistsByUsername(ctx, username)
}

func (s *userService) EnsureDefaultAccounts(ctx context.Context) error {
	if err := s.ensureAccount(ctx, defaultAdminUsername, defaultAdminPassword, models.RoleAdmin, defaultAdminEmail); err != nil {
		return err
	}
	return s.ensureAccount(ctx, defaultReaderUsername, defaultReaderPassword, models.RoleReader, defaultReaderEmail)
}

func (s *userService) ensureAccount(ctx context.Context, username, password, role, email string) error {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = s.Register(ctx, username, password, role, email)
	return err
}
