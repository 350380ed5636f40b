package ports

import (
	"context"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// AvailabilityRepository defines persistence operations for doctor availability.
type AvailabilityRepository interface {
	// Upsert creates the doctor's availability record or replaces its Days
	// list wholesale, and returns the stored record.
	Upsert(ctx context.Context, a *domain.Availability) (*domain.Availability, error)
	// FindByDoctorID returns the record for the doctor user id, or
	// domain.ErrAvailabilityNotFound.
	FindByDoctorID(ctx context.Context, doctorID string) (*domain.Availability, error)
}
