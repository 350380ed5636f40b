package ports

import (
	"context"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// RegisterInput carries the data needed to create a new user account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthService implements registration, login, and the password-reset flow.
type AuthService interface {
	// Register creates the user and returns it with a fresh bearer token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and returns a fresh bearer token. Unknown
	// email and wrong password both fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// RequestPasswordReset generates a reset token, stores only its hash, and
	// emails the raw token to the user inside a reset URL.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword consumes a raw reset token and sets the new password.
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}
