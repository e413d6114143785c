// Package analytics fans completed sales out to the configured sinks. The
// checkout path only enqueues; delivery happens on worker goroutines.
package analytics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ecommerce-cloud/backend/internal/metrics"
	"github.com/ecommerce-cloud/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// Sink delivers a single sales summary to one downstream system.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, summary models.SalesSummary) error
}

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return o
}

type Dispatcher struct {
	sinks   []Sink
	opts    Options
	metrics *metrics.Metrics

	queue chan models.SalesSummary
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts the worker pool. With no sinks Publish is a no-op
// and no goroutines are started.
func NewDispatcher(opts Options, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		opts:    opts.withDefaults(),
		metrics: m,
	}
	if len(sinks) == 0 {
		return d
	}

	d.queue = make(chan models.SalesSummary, d.opts.QueueSize)
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Sinks lists the configured sink names.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Publish enqueues a summary without blocking. It reports false when the
// summary was dropped.
func (d *Dispatcher) Publish(summary models.SalesSummary) bool {
	if len(d.sinks) == 0 {
		return true
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("[ANALYTICS] Dispatcher closed, dropping order %s", summary.OrderID)
		d.metrics.Drop()
		return false
	}

	select {
	case d.queue <- summary:
		return true
	default:
		log.Printf("[ANALYTICS] Queue full, dropping order %s", summary.OrderID)
		d.metrics.Drop()
		return false
	}
}

// Close stops accepting summaries and waits for queued ones to be delivered
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	if len(d.sinks) == 0 {
		return nil
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
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

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for summary := range d.queue {
		d.dispatch(summary)
	}
}

// dispatch delivers to every sink concurrently. A failing sink never
// affects the others.
func (d *Dispatcher) dispatch(summary models.SalesSummary) {
	var g errgroup.Group
	for _, sink := range d.sinks {
		sink := sink
		g.Go(func() error {
			return d.deliver(sink, summary)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[ANALYTICS] Delivery incomplete for order %s: %v", summary.OrderID, err)
	}
}

func (d *Dispatcher) deliver(sink Sink, summary models.SalesSummary) error {
	var err error
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
		err = sink.Deliver(ctx, summary)
		cancel()
		if err == nil {
			d.metrics.Delivery(sink.Name(), "ok")
			return nil
		}

		log.Printf("[ANALYTICS] %s attempt %d/%d failed for order %s: %v",
			sink.Name(), attempt, d.opts.MaxAttempts, summary.OrderID, err)
		if attempt < d.opts.MaxAttempts {
			time.Sleep(d.opts.Backoff * time.Duration(attempt))
		}
	}

	d.metrics.Delivery(sink.Name(), "error")
	return err
}
