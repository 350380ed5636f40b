package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// recordingMailer captures delivered messages and signals each delivery.
type recordingMailer struct {
	mu        sync.Mutex
	delivered []ports.EmailMessage
	failFor   string // recipient whose sends fail
	signal    chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{signal: make(chan struct{}, 64)}
}

func (m *recordingMailer) Send(msg ports.EmailMessage) error {
	defer func() { m.signal <- struct{}{} }()
	if m.failFor != "" && msg.To == m.failFor {
		return errors.New("smtp unreachable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered = append(m.delivered, msg)
	return nil
}

func (m *recordingMailer) sent() []ports.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.EmailMessage, len(m.delivered))
	copy(out, m.delivered)
	return out
}

func waitForSends(t *testing.T, m *recordingMailer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.signal:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for send %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_DeliversEnqueuedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	d := NewDispatcher(2, mailer, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.EmailMessage{To: "a@example.com", Subject: "Appointment Confirmation"})
	d.Enqueue(ports.EmailMessage{To: "b@example.com", Subject: "Appointment Reminder"})
	waitForSends(t, mailer, 2)

	sent := mailer.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(sent))
	}
}

func TestDispatcher_FailedSendDoesNotStopWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	mailer.failFor = "broken@example.com"

	// Single worker so both messages land on the same goroutine.
	d := NewDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.EmailMessage{To: "broken@example.com", Subject: "Appointment Update"})
	d.Enqueue(ports.EmailMessage{To: "ok@example.com", Subject: "Appointment Update"})
	waitForSends(t, mailer, 2)

	sent := mailer.sent()
	if len(sent) != 1 || sent[0].To != "ok@example.com" {
		t.Fatalf("worker should survive a failed send and process the next message, got %+v", sent)
	}
}

func TestDispatcher_SameRecipientKeepsOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	d := NewDispatcher(4, mailer, zerolog.Nop())
	d.Start(ctx)

	subjects := []string{"first", "second", "third", "fourth"}
	for _, subj := range subjects {
		d.Enqueue(ports.EmailMessage{To: "same@example.com", Subject: subj})
	}
	waitForSends(t, mailer, len(subjects))

	sent := mailer.sent()
	for i, subj := range subjects {
		if sent[i].Subject != subj {
			t.Fatalf("order broken at %d: expected %q, got %q", i, subj, sent[i].Subject)
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingMailer(), zerolog.Nop())

	first := d.shardIndex("pat@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("pat@example.com"); got != first {
			t.Fatalf("shard index changed between calls: %d vs %d", first, got)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
