package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterRoutes mounts the auth endpoints. Login is rate limited per IP;
// me and logout require a valid token.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, loginRate rate.Limit, loginBurst int) {
	rg.POST("/login", middleware.RateLimit(loginRate, loginBurst), h.Login)
	rg.POST("/register", h.Register)
	rg.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
	rg.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrRoleMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			// Token signing or storage failures are server faults, not
			// bad credentials.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		Type:  "Bearer",
		User:  dto.FromUserToResponse(user),
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Password, req.Role, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"email":    user.Email,
		"message":  "user registered successfully",
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64("userID")

	user, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user no longer exists"})
		return
	}

	c.JSON(http.StatusOK, dto.FromUserToResponse(user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")

	if err := h.authService.RevokeToken(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
