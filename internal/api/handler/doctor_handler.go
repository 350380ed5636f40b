package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/middleware"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

type availabilityDayRequest struct {
	Date  time.Time `json:"date"  validate:"required"`
	Slots []string  `json:"slots" validate:"required,min=1"`
}

type setAvailabilityRequest struct {
	Availability []availabilityDayRequest `json:"availability" validate:"required,dive"`
}

// DoctorHandler handles doctor availability endpoints.
type DoctorHandler struct {
	service ports.AvailabilityService
}

func NewDoctorHandler(service ports.AvailabilityService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// SetAvailability replaces the authenticated doctor's availability wholesale.
//
// @Summary      Set own availability
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setAvailabilityRequest  true  "Availability schedule"
// @Success      200   {object}  domain.Availability
// @Failure      400   {object}  msgResponse
// @Router       /api/doctors/availability [post]
func (h *DoctorHandler) SetAvailability(c echo.Context) error {
	var req setAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doctorID, _ := c.Get(middleware.CtxUserID).(string)

	days := make([]domain.AvailabilityDay, 0, len(req.Availability))
	for _, d := range req.Availability {
		days = append(days, domain.AvailabilityDay{Date: d.Date, Slots: d.Slots})
	}

	stored, err := h.service.Set(c.Request().Context(), doctorID, days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stored)
}

// GetAvailability returns a doctor's availability by doctor user id.
//
// @Summary      Get a doctor's availability
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Doctor user id"
// @Success      200 {object}  domain.Availability
// @Failure      404 {object}  msgResponse
// @Router       /api/doctors/availability/{id} [get]
func (h *DoctorHandler) GetAvailability(c echo.Context) error {
	stored, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stored)
}
