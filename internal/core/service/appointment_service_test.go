package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

type stubAppointmentRepo struct {
	mu     sync.Mutex
	appts  map[string]*domain.Appointment
	nextID int
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{appts: make(map[string]*domain.Appointment)}
}

func cloneAppt(a *domain.Appointment) *domain.Appointment {
	clone := *a
	return &clone
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	created := cloneAppt(a)
	created.ID = fmt.Sprintf("appt-%d", r.nextID)
	r.appts[created.ID] = cloneAppt(created)
	return created, nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return cloneAppt(a), nil
}

func (r *stubAppointmentRepo) FindInWindow(_ context.Context, doctorID string, from, to time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.DoctorID != doctorID {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		out = append(out, cloneAppt(a))
	}
	return out, nil
}

func (r *stubAppointmentRepo) List(_ context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.appts {
		if !filter.Day.IsZero() {
			end := filter.Day.Add(24 * time.Hour)
			if a.Date.Before(filter.Day) || a.Date.After(end) {
				continue
			}
		}
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		out = append(out, cloneAppt(a))
	}
	return out, nil
}

func (r *stubAppointmentRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	a.Status = status
	return cloneAppt(a), nil
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.appts, id)
	return nil
}

func (r *stubAppointmentRepo) FindUpcoming(_ context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		out = append(out, cloneAppt(a))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type apptFixture struct {
	service  *AppointmentService
	appts    *stubAppointmentRepo
	users    *stubUserRepo
	notifier *recordingNotifier
	patient  *domain.User
	doctor   *domain.User
}

func newApptFixture(t *testing.T) *apptFixture {
	t.Helper()
	users := newStubUserRepo()
	appts := newStubAppointmentRepo()
	notifier := &recordingNotifier{}

	patient, err := users.Create(context.Background(), &domain.User{
		Name: "Pat Patient", Email: "pat@example.com", Role: domain.RolePatient,
	})
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	doctor, err := users.Create(context.Background(), &domain.User{
		Name: "Doc Doctor", Email: "doc@example.com", Role: domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("seed doctor: %v", err)
	}

	return &apptFixture{
		service:  NewAppointmentService(appts, users, notifier, zerolog.Nop()),
		appts:    appts,
		users:    users,
		notifier: notifier,
		patient:  patient,
		doctor:   doctor,
	}
}

func (f *apptFixture) book(t *testing.T, date time.Time) *domain.Appointment {
	t.Helper()
	appt, err := f.service.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      date,
		Reason:    "checkup",
	})
	if err != nil {
		t.Fatalf("book at %s: %v", date, err)
	}
	return appt
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAppointmentService_Create_Success(t *testing.T) {
	f := newApptFixture(t)
	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	appt := f.book(t, date)
	if appt.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if appt.Status != domain.StatusScheduled {
		t.Fatalf("expected status %q, got %q", domain.StatusScheduled, appt.Status)
	}
	if appt.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
}

func TestAppointmentService_Create_NotifiesBothParties(t *testing.T) {
	f := newApptFixture(t)
	f.book(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	sent := f.notifier.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sent))
	}
	recipients := map[string]bool{}
	for _, msg := range sent {
		if msg.Subject != "Appointment Confirmation" {
			t.Fatalf("unexpected subject %q", msg.Subject)
		}
		recipients[msg.To] = true
	}
	if !recipients["pat@example.com"] || !recipients["doc@example.com"] {
		t.Fatalf("expected patient and doctor recipients, got %v", recipients)
	}
}

func TestAppointmentService_Create_ConflictWindow(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		offset   time.Duration
		conflict bool
	}{
		{"same time", 0, true},
		{"existing at upper bound of window", 30 * time.Minute, true},
		{"existing at lower bound of window", -60 * time.Minute, true},
		{"fifteen minutes later", 15 * time.Minute, true},
		{"thirty minutes earlier", -30 * time.Minute, true},
		{"just past the window", 31 * time.Minute, false},
		{"an hour and one minute later", 61 * time.Minute, false},
		{"just before the window", -61 * time.Minute, false},
		{"next day", 24 * time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newApptFixture(t)
			f.book(t, base)

			_, err := f.service.Create(context.Background(), ports.CreateAppointmentInput{
				PatientID: f.patient.ID,
				DoctorID:  f.doctor.ID,
				Date:      base.Add(tc.offset),
			})
			if tc.conflict && !errors.Is(err, domain.ErrSlotTaken) {
				t.Fatalf("expected ErrSlotTaken, got %v", err)
			}
			if !tc.conflict && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	}
}

func TestAppointmentService_Create_CancelledStillBlocksSlot(t *testing.T) {
	f := newApptFixture(t)
	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	appt := f.book(t, date)
	if _, err := f.service.UpdateStatus(context.Background(), appt.ID, domain.StatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	_, err := f.service.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      date,
	})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("cancelled appointment should still block the slot, got %v", err)
	}
}

func TestAppointmentService_Create_OtherDoctorUnaffected(t *testing.T) {
	f := newApptFixture(t)
	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	f.book(t, date)

	other, err := f.users.Create(context.Background(), &domain.User{
		Name: "Second Doctor", Email: "doc2@example.com", Role: domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("seed second doctor: %v", err)
	}

	if _, err := f.service.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: f.patient.ID,
		DoctorID:  other.ID,
		Date:      date,
	}); err != nil {
		t.Fatalf("same slot with a different doctor should succeed, got %v", err)
	}
}

func TestAppointmentService_Create_RecipientLookupFailureDoesNotFailBooking(t *testing.T) {
	f := newApptFixture(t)

	appt, err := f.service.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: "missing-user",
		DoctorID:  f.doctor.ID,
		Date:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("booking must not fail on recipient lookup, got %v", err)
	}
	if appt == nil || appt.ID == "" {
		t.Fatalf("expected persisted appointment")
	}

	sent := f.notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("expected only the doctor notification, got %d", len(sent))
	}
	if sent[0].To != "doc@example.com" {
		t.Fatalf("unexpected recipient %q", sent[0].To)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestAppointmentService_List_ResolvesParties(t *testing.T) {
	f := newApptFixture(t)
	f.book(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	views, err := f.service.List(context.Background(), ports.ListAppointmentsInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(views))
	}
	v := views[0]
	if v.Patient.Name != "Pat Patient" || v.Patient.Email != "pat@example.com" {
		t.Fatalf("patient not resolved: %+v", v.Patient)
	}
	if v.Doctor.Name != "Doc Doctor" || v.Doctor.Email != "doc@example.com" {
		t.Fatalf("doctor not resolved: %+v", v.Doctor)
	}
}

func TestAppointmentService_List_FiltersByDay(t *testing.T) {
	f := newApptFixture(t)
	f.book(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	f.book(t, time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC))
	f.book(t, time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC))

	views, err := f.service.List(context.Background(), ports.ListAppointmentsInput{
		Day: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 appointments on 2026-09-01, got %d", len(views))
	}
	for _, v := range views {
		if v.Date.Day() != 1 {
			t.Fatalf("appointment outside the filtered day: %s", v.Date)
		}
	}
}

func TestAppointmentService_List_FiltersCombineWithAnd(t *testing.T) {
	f := newApptFixture(t)
	date := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	f.book(t, date)

	other, err := f.users.Create(context.Background(), &domain.User{
		Name: "Second Doctor", Email: "doc2@example.com", Role: domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("seed second doctor: %v", err)
	}
	if _, err := f.service.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: f.patient.ID, DoctorID: other.ID, Date: date.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	views, err := f.service.List(context.Background(), ports.ListAppointmentsInput{
		Day:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DoctorID: f.doctor.ID,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 appointment for the first doctor, got %d", len(views))
	}
	if views[0].Doctor.ID != f.doctor.ID {
		t.Fatalf("unexpected doctor %q", views[0].Doctor.ID)
	}
}

func TestAppointmentService_List_Empty(t *testing.T) {
	f := newApptFixture(t)

	views, err := f.service.List(context.Background(), ports.ListAppointmentsInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty result, got %d", len(views))
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus / Delete
// ---------------------------------------------------------------------------

func TestAppointmentService_UpdateStatus_NotifiesWithUpdateSubject(t *testing.T) {
	f := newApptFixture(t)
	appt := f.book(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	f.notifier.mu.Lock()
	f.notifier.messages = nil
	f.notifier.mu.Unlock()

	updated, err := f.service.UpdateStatus(context.Background(), appt.ID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %q", updated.Status)
	}

	sent := f.notifier.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sent))
	}
	for _, msg := range sent {
		if msg.Subject != "Appointment Update" {
			t.Fatalf("unexpected subject %q", msg.Subject)
		}
		if !strings.Contains(msg.Body, string(domain.StatusConfirmed)) {
			t.Fatalf("body should mention the new status: %q", msg.Body)
		}
	}
}

func TestAppointmentService_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newApptFixture(t)
	appt := f.book(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	_, err := f.service.UpdateStatus(context.Background(), appt.ID, "done")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestAppointmentService_UpdateStatus_NotFound(t *testing.T) {
	f := newApptFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), "missing", domain.StatusConfirmed)
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestAppointmentService_Delete_RemovesAndNotifies(t *testing.T) {
	f := newApptFixture(t)
	appt := f.book(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	f.notifier.mu.Lock()
	f.notifier.messages = nil
	f.notifier.mu.Unlock()

	if err := f.service.Delete(context.Background(), appt.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := f.appts.FindByID(context.Background(), appt.ID); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("appointment should be gone, got %v", err)
	}

	sent := f.notifier.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sent))
	}
	for _, msg := range sent {
		if msg.Subject != "Appointment Cancellation" {
			t.Fatalf("unexpected subject %q", msg.Subject)
		}
	}
}

func TestAppointmentService_Delete_NotFound(t *testing.T) {
	f := newApptFixture(t)

	if err := f.service.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if len(f.notifier.sent()) != 0 {
		t.Fatalf("no notifications expected on failed delete")
	}
}
