package dto

import "libraryhub/internal/http-api/models"

// Data Transfer Objects for authentication requests and responses

// LoginRequest: payload for user login. Role is optional; when set it must
// match the account's stored role.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role"`
}

// UserResponse: user summary embedded in auth responses
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// LoginResponse: response payload after successful authentication
type LoginResponse struct {
	Token string       `json:"token"`
	Type  string       `json:"type"` // always "Bearer"
	User  UserResponse `json:"user"`
}

func FromUserToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Email:    u.Email,
	}
}
