package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReminderMarker records which appointments have already received a reminder
// within the current lookahead window, so the sweep sends one reminder per
// window instead of one per tick. Keys expire on their own; a lost Redis means
// at worst a repeated reminder, never a missed one.
// Key format: reminder:<appointment_id>
type ReminderMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderMarker wraps the given Redis client. ttl should equal the sweep's
// lookahead window.
func NewReminderMarker(client *redis.Client, ttl time.Duration) *ReminderMarker {
	return &ReminderMarker{client: client, ttl: ttl}
}

// AlreadySent reports whether a reminder for this appointment went out within
// the current window.
func (m *ReminderMarker) AlreadySent(ctx context.Context, appointmentID string) (bool, error) {
	n, err := m.client.Exists(ctx, m.key(appointmentID)).Result()
	if err != nil {
		return false, fmt.Errorf("reminder marker check: %w", err)
	}
	return n > 0, nil
}

// Mark records that a reminder was sent (expires after the window TTL).
func (m *ReminderMarker) Mark(ctx context.Context, appointmentID string) error {
	return m.client.Set(ctx, m.key(appointmentID), "1", m.ttl).Err()
}

func (m *ReminderMarker) key(appointmentID string) string {
	return "reminder:" + appointmentID
}
