package ports

import (
	"context"
	"time"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// CreateAppointmentInput carries the data needed to book an appointment.
type CreateAppointmentInput struct {
	PatientID string
	DoctorID  string
	Date      time.Time
	Reason    string
}

// ListAppointmentsInput carries the optional list filters. Zero values mean
// "no filter"; filters combine with logical AND.
type ListAppointmentsInput struct {
	Day       time.Time
	DoctorID  string
	PatientID string
}

// PartySummary is the resolved identity of a patient or doctor on a listing.
type PartySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AppointmentView is an appointment with both parties resolved.
type AppointmentView struct {
	ID      string                   `json:"id"`
	Patient PartySummary             `json:"patient"`
	Doctor  PartySummary             `json:"doctor"`
	Date    time.Time                `json:"date"`
	Status  domain.AppointmentStatus `json:"status"`
	Reason  string                   `json:"reason,omitempty"`
}

// AppointmentService defines the booking use cases.
type AppointmentService interface {
	// Create books an appointment for the patient, rejecting with
	// domain.ErrSlotTaken when the doctor has any appointment inside the
	// conflict window around Date.
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	List(ctx context.Context, input ListAppointmentsInput) ([]AppointmentView, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}
