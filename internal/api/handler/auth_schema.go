package handler

import "github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=patient doctor receptionist"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type requestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken"  validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}
