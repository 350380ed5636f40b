package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/metrics"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/middleware"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// AppointmentHandler handles the booking endpoints.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create books an appointment for the authenticated patient.
//
// @Summary      Create a new appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      200   {object}  domain.Appointment
// @Failure      400   {object}  msgResponse
// @Failure      401   {object}  msgResponse
// @Failure      403   {object}  msgResponse
// @Router       /api/appointments/create [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patientID, _ := c.Get(middleware.CtxUserID).(string)

	appt, err := h.service.Create(c.Request().Context(), ports.CreateAppointmentInput{
		PatientID: patientID,
		DoctorID:  req.Doctor,
		Date:      req.Date,
		Reason:    req.Reason,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			metrics.BookingConflictsTotal.Inc()
		}
		return err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, appt)
}

// List returns appointments matching the optional date/doctor/patient filters,
// with both parties resolved.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        date     query     string  false  "Calendar day (YYYY-MM-DD)"
// @Param        doctor   query     string  false  "Doctor user id"
// @Param        patient  query     string  false  "Patient user id"
// @Success      200      {array}   ports.AppointmentView
// @Failure      400      {object}  msgResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	var q listAppointmentsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	input := ports.ListAppointmentsInput{
		DoctorID:  q.Doctor,
		PatientID: q.Patient,
	}
	if q.Date != "" {
		day, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		input.Day = day.UTC()
	}

	views, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views)
}

// UpdateStatus sets the status of an appointment.
//
// @Summary      Update appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment id"
// @Param        body  body      updateAppointmentRequest  true  "New status"
// @Success      200   {object}  domain.Appointment
// @Failure      404   {object}  msgResponse
// @Router       /api/appointments/update/{id} [put]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	appt, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.AppointmentStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, appt)
}

// Delete removes an appointment.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Appointment id"
// @Success      200 {object}  msgResponse
// @Failure      404 {object}  msgResponse
// @Router       /api/appointments/delete/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "Appointment removed"})
}
