package handler

import "time"

type createAppointmentRequest struct {
	Doctor string    `json:"doctor" validate:"required"`
	Date   time.Time `json:"date"   validate:"required"`
	Reason string    `json:"reason"`
}

type updateAppointmentRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed cancelled"`
}

// listAppointmentsQuery carries the optional query filters. date is a
// calendar day in YYYY-MM-DD form.
type listAppointmentsQuery struct {
	Date    string `query:"date"`
	Doctor  string `query:"doctor"`
	Patient string `query:"patient"`
}
