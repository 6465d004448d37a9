package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"libraryhub/internal/config"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/middleware/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRoleMismatch       = errors.New("user role does not match the selected role")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Claims carries the identity embedded in issued access tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login verifies the credentials and, when selectedRole is non-empty,
	// that it matches the account's stored role. Returns a signed token.
	Login(ctx context.Context, username, password, selectedRole string) (string, *models.User, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	// RevokeToken invalidates the token until its natural expiry.
	RevokeToken(ctx context.Context, tokenString string) error
}

type authService struct {
	userRepo   repository.UserRepository
	tokenStore repository.TokenStore
	jwtSecret  string
	jwtExpiry  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, tokenStore repository.TokenStore, cfg *config.Config) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		jwtSecret:  cfg.JWTSecret,
		jwtExpiry:  cfg.JWTExpiry,
	}
}

func (s *authService) Login(ctx context.Context, username, password, selectedRole string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// User not found: dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if selectedRole != "" && selectedRole != user.Role {
		return "", nil, ErrRoleMismatch
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    "libraryhub",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

func (s *authService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		// Already invalid or revoked, nothing to do.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	return s.tokenStore.Revoke(ctx, claims.ID, ttl)
}
