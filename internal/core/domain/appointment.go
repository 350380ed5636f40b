package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid reports whether s is a member of the status enum. Transitions are
// deliberately unconstrained: any valid status may replace any other.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Conflict window around a requested appointment time. A new booking for a
// doctor is rejected when an existing appointment for that doctor falls within
// [requested - ConflictWindowBefore, requested + ConflictWindowAfter], bounds
// inclusive. Cancelled appointments still block the slot.
const (
	ConflictWindowBefore = 30 * time.Minute
	ConflictWindowAfter  = 60 * time.Minute
)

// Appointment is the core aggregate: a booking between one patient and one
// doctor at a point in time.
type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	Date      time.Time         `json:"date"`
	Status    AppointmentStatus `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
