package ports

import (
	"context"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// AvailabilityService defines the doctor-schedule use cases.
type AvailabilityService interface {
	// Set replaces the doctor's availability wholesale. Fails with
	// domain.ErrEmptySlots when any day carries an empty slots list.
	Set(ctx context.Context, doctorID string, days []domain.AvailabilityDay) (*domain.Availability, error)
	Get(ctx context.Context, doctorID string) (*domain.Availability, error)
}

// UserService exposes profile lookups for authenticated users.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
