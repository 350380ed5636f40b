package ports

import (
	"context"
	"time"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the email
	// is already taken (backed by a unique index).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetResetToken stores the hashed reset token and its expiry on the user.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// FindByResetTokenHash returns the user holding tokenHash with an expiry
	// still in the future; domain.ErrResetTokenInvalid otherwise.
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	// UpdatePassword sets a new password hash and clears the reset token and
	// its expiry in the same write.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
