// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginUser struct {
	ID                  int64     `json:"id"`
	AuthenticationToken string    `json:"authentication_token"`
	ExpiresAt           time.Time `json:"expires_at"`
}

type LoginResponse struct {
	User LoginUser `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
