package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultSize = 100
	// defaultRate paces deliveries to one message per second.
	defaultRate = rate.Limit(1)
)

// ErrQueueFull is returned by Enqueue when the buffer has no room.
var ErrQueueFull = errors.New("mail queue is full")

// ErrStopped is returned by Enqueue after Stop.
var ErrStopped = errors.New("mail queue is stopped")

// Job is one outbound email.
type Job struct {
	Kind    string // welcome, admin, service_request, password_reset
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Options tunes a Dispatcher. Zero values pick the defaults.
type Options struct {
	Size     int
	Rate     rate.Limit
	Burst    int
	OnResult func(job Job, err error)
}

// Dispatcher is a bounded in-memory FIFO drained by a single worker at a
// fixed pace. Jobs still queued at shutdown are lost.
type Dispatcher struct {
	jobs     chan Job
	sender   Sender
	limiter  *rate.Limiter
	onResult func(Job, error)
	log      zerolog.Logger

	mu      sync.RWMutex
	started bool
	stopped bool
	done    chan struct{}
}

func NewDispatcher(sender Sender, opts Options, log zerolog.Logger) *Dispatcher {
	if opts.Size <= 0 {
		opts.Size = defaultSize
	}
	if opts.Rate <= 0 {
		opts.Rate = defaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Dispatcher{
		jobs:     make(chan Job, opts.Size),
		sender:   sender,
		limiter:  rate.NewLimiter(opts.Rate, opts.Burst),
		onResult: opts.OnResult,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the worker. It stops when ctx is cancelled or Stop is
// called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.run(ctx)
}

// Enqueue adds job without blocking.
func (d *Dispatcher) Enqueue(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.jobs <- job:
		return nil
	default:
		d.log.Warn().Str("kind", job.Kind).Int("capacity", cap(d.jobs)).Msg("mail queue full, dropping message")
		return ErrQueueFull
	}
}

// Len reports how many jobs are waiting.
func (d *Dispatcher) Len() int {
	return len(d.jobs)
}

// Stop refuses new jobs and lets the worker drain what is queued. It
// returns ctx.Err() if ctx expires first; undelivered jobs are then lost.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.jobs)
	}
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			if err := d.limiter.Wait(ctx); err != nil {
				return
			}
			d.deliver(ctx, job)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, job Job) {
	err := d.sender.Send(ctx, job.To, job.Subject, job.HTML)
	if err != nil {
		d.log.Error().Err(err).Str("kind", job.Kind).Msg("email delivery failed")
	} else {
		d.log.Info().Str("kind", job.Kind).Msg("email delivered")
	}
	if d.onResult != nil {
		d.onResult(job, err)
	}
}
