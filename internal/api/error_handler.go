package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
)

// msgResponse is the envelope for domain failures, matching the API contract:
// {"msg": "<human message>"}.
type msgResponse struct {
	Msg string `json:"msg"`
}

// serverErrorResponse is the envelope for unexpected failures; detail is
// logged, never leaked.
type serverErrorResponse struct {
	Message string `json:"message"`
}

// validationResponse is the envelope for malformed input:
// {"errors": [{"field": ..., "message": ...}, ...]}.
type validationResponse struct {
	Errors []FieldError `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps known domain
// errors to deterministic status codes, renders validation failures as
// field-level lists, and hides everything unexpected behind a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, validationResponse{Errors: ve.Fields})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, msgResponse{Msg: fmt.Sprintf("%v", he.Message)})
			return
		}

		if code, msg, ok := domainStatus(err); ok {
			_ = c.JSON(code, msgResponse{Msg: msg})
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")

		_ = c.JSON(http.StatusInternalServerError, serverErrorResponse{Message: "Server error"})
	}
}

// domainStatus maps sentinel domain errors to HTTP codes and user-facing
// messages. Authentication messages stay generic so callers cannot enumerate
// accounts.
func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists", true
	case errors.Is(err, domain.ErrSlotTaken):
		return http.StatusBadRequest, "Doctor is already booked for this time slot", true
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "Role is invalid", true
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "Status is invalid", true
	case errors.Is(err, domain.ErrEmptySlots):
		return http.StatusBadRequest, "Slots array should not be empty", true
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusBadRequest, "Invalid or expired token", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, domain.ErrAppointmentNotFound):
		return http.StatusNotFound, "Appointment not found", true
	case errors.Is(err, domain.ErrAvailabilityNotFound):
		return http.StatusNotFound, "Availability not found", true
	}
	return 0, "", false
}
