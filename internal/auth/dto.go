package auth

import (
	"time"

	"github.com/angelmondragon/glassworks-backend/internal/users"
)

// RegisterRequest creates a workshop account.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest captures the credentials sent to the login endpoint. Username
// may also hold the account email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset with the emailed token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Session is the result of a successful register or login. Token is set as the
// session cookie by the controller and never serialized in the body.
type Session struct {
	Token     string         `json:"-"`
	SessionID string         `json:"-"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *users.UserDTO `json:"user"`
}

// ForgotPasswordResponse is identical for known and unknown emails. ResetToken
// is only filled in development.
type ForgotPasswordResponse struct {
	Message    string  `json:"message"`
	ResetToken *string `json:"reset_token,omitempty"`
}
