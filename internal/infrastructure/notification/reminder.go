package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/metrics"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// SentMarker suppresses repeat reminders for the same appointment within one
// lookahead window. Backed by Redis TTL keys in production.
type SentMarker interface {
	AlreadySent(ctx context.Context, appointmentID string) (bool, error)
	Mark(ctx context.Context, appointmentID string) error
}

// ReminderSweeper periodically scans for appointments starting within the
// lookahead window and mails a reminder to both parties. It owns its timer and
// shares nothing with request handlers beyond read access to the stores.
type ReminderSweeper struct {
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	notifier     ports.Notifier
	marker       SentMarker
	interval     time.Duration
	lookahead    time.Duration
	log          zerolog.Logger

	startOnce sync.Once
}

func NewReminderSweeper(
	appointments ports.AppointmentRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	marker SentMarker,
	interval, lookahead time.Duration,
	log zerolog.Logger,
) *ReminderSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if lookahead <= 0 {
		lookahead = time.Hour
	}
	return &ReminderSweeper{
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		marker:       marker,
		interval:     interval,
		lookahead:    lookahead,
		log:          log,
	}
}

// Start launches the sweep loop. Guarded by sync.Once: calling Start twice
// must not double the reminder cadence.
func (s *ReminderSweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *ReminderSweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep mails a reminder for every appointment in [now, now+lookahead] that
// has not been reminded in the current window. Marker failures fail open: a
// broken Redis costs a duplicate reminder, never a missed one.
func (s *ReminderSweeper) sweep(ctx context.Context) {
	start := time.Now()
	now := start.UTC()

	appts, err := s.appointments.FindUpcoming(ctx, now, now.Add(s.lookahead))
	if err != nil {
		s.log.Error().Err(err).Msg("reminder sweep query failed")
		return
	}

	for _, appt := range appts {
		if s.marker != nil {
			sent, err := s.marker.AlreadySent(ctx, appt.ID)
			if err != nil {
				s.log.Warn().Err(err).Str("appointment_id", appt.ID).Msg("reminder marker check failed, sending anyway")
			} else if sent {
				continue
			}
		}

		s.remind(ctx, appt)

		if s.marker != nil {
			if err := s.marker.Mark(ctx, appt.ID); err != nil {
				s.log.Warn().Err(err).Str("appointment_id", appt.ID).Msg("failed to set reminder marker")
			}
		}
	}

	metrics.ReminderSweepDuration.Observe(time.Since(start).Seconds())
}

func (s *ReminderSweeper) remind(ctx context.Context, appt *domain.Appointment) {
	body := fmt.Sprintf("Reminder: You have an appointment scheduled on %s for %s.",
		appt.Date.Format(time.RFC1123), appt.Reason)

	for _, id := range []string{appt.PatientID, appt.DoctorID} {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Str("appointment_id", appt.ID).Msg("reminder recipient lookup failed")
			continue
		}
		s.notifier.Enqueue(ports.EmailMessage{
			To:      user.Email,
			Subject: "Appointment Reminder",
			Body:    body,
		})
		metrics.RemindersSentTotal.Inc()
	}
}
