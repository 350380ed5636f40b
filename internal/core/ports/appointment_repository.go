package ports

import (
	"context"
	"time"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// ListAppointmentsFilter carries the optional, independently composable query
// parameters for listing appointments. Zero values mean "no filter".
type ListAppointmentsFilter struct {
	// Day filters to the calendar day starting at Day (midnight). The window
	// is [Day, Day+24h] with an inclusive upper bound.
	Day       time.Time
	DoctorID  string
	PatientID string
}

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// FindInWindow returns all appointments for the doctor whose date falls in
	// [from, to], bounds inclusive, regardless of status.
	FindInWindow(ctx context.Context, doctorID string, from, to time.Time) ([]*domain.Appointment, error)
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, error)
	// UpdateStatus sets the status unconditionally and returns the updated
	// record, or domain.ErrAppointmentNotFound.
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	// FindUpcoming returns appointments with a date in [from, to] across all
	// doctors, used by the reminder sweep.
	FindUpcoming(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
}
