package dto

import "time"

// RegisterRequest payload for self-service sign-up.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Password string `json:"password" validate:"required,password"`
}

// LoginRequest payload for login. Login accepts an email or a username.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest asks for a reset token.
type PasswordResetRequest struct {
	Login string `json:"login" validate:"required"`
}

// PasswordResetConfirm submits the token with a new password.
type PasswordResetConfirm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password"`
}

// SessionResponse describes an established session.
type SessionResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}
