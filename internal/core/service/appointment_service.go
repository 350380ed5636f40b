package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// AppointmentService implements the booking workflow: create with the
// double-booking check, list with resolved parties, status update, delete.
// Every successful mutation enqueues a notification to both parties.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	notifier     ports.Notifier
	logger       zerolog.Logger
}

func NewAppointmentService(appointments ports.AppointmentRepository, users ports.UserRepository, notifier ports.Notifier, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

// Create books an appointment. The conflict window is
// [date - 30min, date + 60min], bounds inclusive, per doctor, regardless of
// appointment status: even a cancelled appointment blocks the slot.
func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	from := input.Date.Add(-domain.ConflictWindowBefore)
	to := input.Date.Add(domain.ConflictWindowAfter)

	existing, err := s.appointments.FindInWindow(ctx, input.DoctorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	if len(existing) > 0 {
		return nil, domain.ErrSlotTaken
	}

	appt := &domain.Appointment{
		PatientID: input.PatientID,
		DoctorID:  input.DoctorID,
		Date:      input.Date,
		Status:    domain.StatusScheduled,
		Reason:    input.Reason,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.appointments.Create(ctx, appt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", created.ID).
		Str("doctor_id", created.DoctorID).
		Time("date", created.Date).
		Msg("appointment created")

	body := fmt.Sprintf("Your appointment on %s has been scheduled. Reason: %s.",
		created.Date.Format(time.RFC1123), created.Reason)
	s.notifyParties(ctx, created, "Appointment Confirmation", body)

	return created, nil
}

// List returns appointments matching the filters, each with the patient and
// doctor identities resolved.
func (s *AppointmentService) List(ctx context.Context, input ports.ListAppointmentsInput) ([]ports.AppointmentView, error) {
	appts, err := s.appointments.List(ctx, ports.ListAppointmentsFilter{
		Day:       input.Day,
		DoctorID:  input.DoctorID,
		PatientID: input.PatientID,
	})
	if err != nil {
		return nil, err
	}

	// Users repeat across appointments; resolve each id once.
	resolved := make(map[string]ports.PartySummary)
	views := make([]ports.AppointmentView, 0, len(appts))
	for _, a := range appts {
		patient, err := s.party(ctx, resolved, a.PatientID)
		if err != nil {
			return nil, err
		}
		doctor, err := s.party(ctx, resolved, a.DoctorID)
		if err != nil {
			return nil, err
		}
		views = append(views, ports.AppointmentView{
			ID:      a.ID,
			Patient: patient,
			Doctor:  doctor,
			Date:    a.Date,
			Status:  a.Status,
			Reason:  a.Reason,
		})
	}
	return views, nil
}

// UpdateStatus sets the status unconditionally; there is no transition graph.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", id).Str("status", string(status)).Msg("appointment status updated")

	body := fmt.Sprintf("Your appointment on %s is now %s.",
		updated.Date.Format(time.RFC1123), updated.Status)
	s.notifyParties(ctx, updated, "Appointment Update", body)

	return updated, nil
}

// Delete removes the appointment and notifies both parties referencing the
// original time.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("appointment_id", id).Msg("appointment deleted")

	body := fmt.Sprintf("Your appointment on %s has been cancelled.",
		appt.Date.Format(time.RFC1123))
	s.notifyParties(ctx, appt, "Appointment Cancellation", body)

	return nil
}

func (s *AppointmentService) party(ctx context.Context, cache map[string]ports.PartySummary, id string) (ports.PartySummary, error) {
	if p, ok := cache[id]; ok {
		return p, nil
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return ports.PartySummary{}, fmt.Errorf("resolve user %s: %w", id, err)
	}
	p := ports.PartySummary{ID: user.ID, Name: user.Name, Email: user.Email}
	cache[id] = p
	return p, nil
}

// notifyParties enqueues the same message to the patient and the doctor.
// Lookup failures are logged and swallowed: notification is best-effort and
// must never fail the workflow that triggered it.
func (s *AppointmentService) notifyParties(ctx context.Context, a *domain.Appointment, subject, body string) {
	for _, id := range []string{a.PatientID, a.DoctorID} {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Str("appointment_id", a.ID).Msg("notification recipient lookup failed")
			continue
		}
		s.notifier.Enqueue(ports.EmailMessage{To: user.Email, Subject: subject, Body: body})
	}
}
