package domain

import "time"

// AvailabilityDay groups the bookable slot labels a doctor offers on one date.
// Slots must be non-empty when the day is present.
type AvailabilityDay struct {
	Date  time.Time `json:"date"`
	Slots []string  `json:"slots"`
}

// Availability is the per-doctor schedule record. There is at most one per
// doctor; writes replace the whole Days list, they never merge.
type Availability struct {
	ID       string            `json:"id"`
	DoctorID string            `json:"doctor_id"`
	Days     []AvailabilityDay `json:"availability"`
}
