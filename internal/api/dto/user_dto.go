package dto

import (
	"time"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// SignupRequest payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload. Citizens sign in by email, admin accounts by
// username; exactly one identifier is expected.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Role       domain.UserRole `json:"role"`
	Department *string         `json:"department"`
	Token      string          `json:"token"`
	ExpiresAt  time.Time       `json:"expires_at"`
}
