package domain

import "errors"

var (
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrSlotTaken            = errors.New("doctor is already booked for this time slot")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrEmptySlots           = errors.New("slots list must not be empty")
	ErrResetTokenInvalid    = errors.New("invalid or expired reset token")
)
