package notification

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/metrics"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher delivers email jobs on a fixed set of workers, sharded by
// recipient so one recipient's messages keep their order. Sends are
// best-effort: a failed delivery is counted and logged, never retried, and
// never surfaces to the workflow that enqueued it.
type Dispatcher struct {
	workers []chan ports.EmailMessage
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.EmailMessage, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a message to the worker responsible for its recipient. The
// call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(msg ports.EmailMessage) {
	d.workers[d.shardIndex(msg.To)] <- msg
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(msg); err != nil {
				metrics.EmailsFailedTotal.Inc()
				d.log.Error().Err(err).
					Str("to", msg.To).
					Str("subject", msg.Subject).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}
			metrics.EmailsSentTotal.WithLabelValues(msg.Subject).Inc()
			d.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
		}
	}
}
