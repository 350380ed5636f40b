package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/handler"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/middleware"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

type stubAppointmentService struct {
	createErr error
	listErr   error
	updateErr error
	deleteErr error

	lastCreate ports.CreateAppointmentInput
	lastList   ports.ListAppointmentsInput
	lastID     string
	lastStatus domain.AppointmentStatus
	views      []ports.AppointmentView
}

func (s *stubAppointmentService) Create(_ context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	s.lastCreate = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Appointment{
		ID:        "appt-1",
		PatientID: input.PatientID,
		DoctorID:  input.DoctorID,
		Date:      input.Date,
		Status:    domain.StatusScheduled,
		Reason:    input.Reason,
	}, nil
}

func (s *stubAppointmentService) List(_ context.Context, input ports.ListAppointmentsInput) ([]ports.AppointmentView, error) {
	s.lastList = input
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.views, nil
}

func (s *stubAppointmentService) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	s.lastID = id
	s.lastStatus = status
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &domain.Appointment{ID: id, Status: status}, nil
}

func (s *stubAppointmentService) Delete(_ context.Context, id string) error {
	s.lastID = id
	return s.deleteErr
}

// newApptTestServer registers the routes behind a middleware that injects the
// authenticated identity, standing in for the JWT layer.
func newApptTestServer(svc ports.AppointmentService, userID string) *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	identity := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, userID)
			return next(c)
		}
	}

	h := handler.NewAppointmentHandler(svc)
	g := e.Group("/api/appointments", identity)
	g.POST("/create", h.Create)
	g.GET("", h.List)
	g.PUT("/update/:id", h.UpdateStatus)
	g.DELETE("/delete/:id", h.Delete)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAppointmentHandler_Create_Success(t *testing.T) {
	svc := &stubAppointmentService{}
	e := newApptTestServer(svc, "patient-1")

	rec := doRequest(e, http.MethodPost, "/api/appointments/create",
		`{"doctor":"doctor-1","date":"2026-09-01T10:00:00Z","reason":"checkup"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCreate.PatientID != "patient-1" {
		t.Fatalf("patient id should come from the authenticated identity, got %q", svc.lastCreate.PatientID)
	}
	if svc.lastCreate.DoctorID != "doctor-1" {
		t.Fatalf("doctor id not forwarded: %q", svc.lastCreate.DoctorID)
	}
	want := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if !svc.lastCreate.Date.Equal(want) {
		t.Fatalf("expected date %s, got %s", want, svc.lastCreate.Date)
	}
}

func TestAppointmentHandler_Create_SlotTaken(t *testing.T) {
	e := newApptTestServer(&stubAppointmentService{createErr: domain.ErrSlotTaken}, "patient-1")

	rec := doRequest(e, http.MethodPost, "/api/appointments/create",
		`{"doctor":"doctor-1","date":"2026-09-01T10:00:00Z"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["msg"] != "Doctor is already booked for this time slot" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAppointmentHandler_Create_MissingDoctor(t *testing.T) {
	e := newApptTestServer(&stubAppointmentService{}, "patient-1")

	rec := doRequest(e, http.MethodPost, "/api/appointments/create",
		`{"date":"2026-09-01T10:00:00Z"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["errors"]; !ok {
		t.Fatalf("expected validation errors, got %v", body)
	}
}

func TestAppointmentHandler_List_ForwardsFilters(t *testing.T) {
	svc := &stubAppointmentService{views: []ports.AppointmentView{}}
	e := newApptTestServer(svc, "doctor-1")

	rec := doRequest(e, http.MethodGet,
		"/api/appointments?date=2026-09-01&doctor=doctor-1&patient=patient-1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !svc.lastList.Day.Equal(want) {
		t.Fatalf("expected day %s, got %s", want, svc.lastList.Day)
	}
	if svc.lastList.DoctorID != "doctor-1" || svc.lastList.PatientID != "patient-1" {
		t.Fatalf("filters not forwarded: %+v", svc.lastList)
	}
}

func TestAppointmentHandler_List_BadDate(t *testing.T) {
	e := newApptTestServer(&stubAppointmentService{}, "doctor-1")

	rec := doRequest(e, http.MethodGet, "/api/appointments?date=01-09-2026", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["msg"] != "date must be YYYY-MM-DD" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAppointmentHandler_UpdateStatus_Success(t *testing.T) {
	svc := &stubAppointmentService{}
	e := newApptTestServer(svc, "doctor-1")

	rec := doRequest(e, http.MethodPut, "/api/appointments/update/appt-1", `{"status":"confirmed"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastID != "appt-1" || svc.lastStatus != domain.StatusConfirmed {
		t.Fatalf("unexpected forwarding: id=%q status=%q", svc.lastID, svc.lastStatus)
	}
}

func TestAppointmentHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	e := newApptTestServer(&stubAppointmentService{}, "doctor-1")

	rec := doRequest(e, http.MethodPut, "/api/appointments/update/appt-1", `{"status":"done"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["errors"]; !ok {
		t.Fatalf("expected validation errors, got %v", body)
	}
}

func TestAppointmentHandler_UpdateStatus_NotFound(t *testing.T) {
	e := newApptTestServer(&stubAppointmentService{updateErr: domain.ErrAppointmentNotFound}, "doctor-1")

	rec := doRequest(e, http.MethodPut, "/api/appointments/update/missing", `{"status":"confirmed"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["msg"] != "Appointment not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAppointmentHandler_Delete_Success(t *testing.T) {
	svc := &stubAppointmentService{}
	e := newApptTestServer(svc, "doctor-1")

	rec := doRequest(e, http.MethodDelete, "/api/appointments/delete/appt-1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["msg"] != "Appointment removed" {
		t.Fatalf("unexpected body %v", body)
	}
	if svc.lastID != "appt-1" {
		t.Fatalf("id not forwarded: %q", svc.lastID)
	}
}

func TestAppointmentHandler_UnexpectedErrorHidden(t *testing.T) {
	e := newApptTestServer(&stubAppointmentService{listErr: errors.New("connection reset")}, "doctor-1")

	rec := doRequest(e, http.MethodGet, "/api/appointments", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Server error" {
		t.Fatalf("internal detail must not leak: %v", body)
	}
}
