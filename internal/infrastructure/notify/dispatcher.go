// Package notify fans alert jobs out to a fixed worker pool. Delivery goes
// through the Notifier port; the portal itself never talks to an email or
// messaging provider directly.
package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes alert jobs to a fixed set of workers using consistent
// hashing on the roll number, so alerts for the same student are delivered
// in the order they were triggered.
type Dispatcher struct {
	workers  []chan ports.AlertJob
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.AlertJob, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AlertJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its roll number.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.AlertJob) {
	d.workers[d.shardIndex(job.Student.RollNo)] <- job
}

// shardIndex maps a roll number deterministically to a worker index.
func (d *Dispatcher) shardIndex(rollNo string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rollNo))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AlertJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.SendLowAttendanceAlert(ctx, &job.Student); err != nil {
				d.log.Error().Err(err).
					Str("roll_no", job.Student.RollNo).
					Int("worker_id", id).
					Msg("alert delivery failed")
			}
		}
	}
}
