package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type DispatcherOptions struct {
	// Async queues mails for background workers instead of sending inline.
	Async     bool
	Workers   int
	QueueSize int
	// Timeout bounds a single Send call.
	Timeout time.Duration
}

// Dispatcher turns offer status changes into emails. In async mode Notify only
// reports whether the job was queued; in sync mode it reports delivery.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	opts   DispatcherOptions

	mu      sync.RWMutex
	closed  bool
	started bool
	jobs    chan OfferStatusChange
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, log *slog.Logger, opts DispatcherOptions) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	d := &Dispatcher{sender: sender, log: log, opts: opts}
	if opts.Async {
		d.jobs = make(chan OfferStatusChange, opts.QueueSize)
	}
	return d
}

// Start launches the worker pool. It is a no-op in sync mode or when already started.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.opts.Async || d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for c := range d.jobs {
		d.deliver(context.Background(), c)
	}
}

// Notify never returns an error: delivery problems are logged and reported as false.
func (d *Dispatcher) Notify(ctx context.Context, c OfferStatusChange) bool {
	if c.Recipient == "" {
		d.log.WarnContext(ctx, "offer status email skipped, no recipient",
			"offer_id", c.OfferID.String(), "request_id", c.RequestID)
		return false
	}
	if !d.opts.Async {
		return d.deliver(ctx, c)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.WarnContext(ctx, "offer status email dropped, dispatcher closed", "offer_id", c.OfferID.String())
		return false
	}
	select {
	case d.jobs <- c:
		return true
	default:
		d.log.WarnContext(ctx, "offer status email dropped, queue full",
			"offer_id", c.OfferID.String(), "queue_size", d.opts.QueueSize, "request_id", c.RequestID)
		return false
	}
}

func (d *Dispatcher) deliver(ctx context.Context, c OfferStatusChange) bool {
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	subject, body := RenderOfferStatus(c)
	start := time.Now()
	if err := d.sender.Send(ctx, c.Recipient, subject, body); err != nil {
		d.log.Warn("offer status email failed",
			"offer_id", c.OfferID.String(),
			"recipient", c.Recipient,
			"request_id", c.RequestID,
			"err", err)
		return false
	}
	d.log.Info("offer status email sent",
		"offer_id", c.OfferID.String(),
		"recipient", c.Recipient,
		"old_status", string(c.OldStatus),
		"new_status", string(c.NewStatus),
		"request_id", c.RequestID,
		"took", time.Since(start))
	return true
}

// Close stops accepting jobs and waits for queued ones until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	if d.jobs != nil {
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
