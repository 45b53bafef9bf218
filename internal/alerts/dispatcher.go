package alerts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/drugx/pkg/lifecycle"
)

const deliveryTimeout = 15 * time.Second

// Dispatcher queues alerts and delivers them on a single background worker.
type Dispatcher struct {
	notifier Notifier
	queue    chan Alert
	done     chan struct{}
	logger   *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// NewDispatcher creates a Dispatcher with a queue of the given size.
func NewDispatcher(notifier Notifier, size int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		queue:    make(chan Alert, max(size, 1)),
		done:     make(chan struct{}),
		logger:   logger.With("system", "alerts"),
	}
}

// Dispatch enqueues alert without blocking. A full queue drops the alert
// and returns ErrQueueFull; once the worker has stopped, alerts are dropped
// with ErrStopped.
func (d *Dispatcher) Dispatch(alert Alert) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Warn("alert dispatcher stopped, dropping alert", "title", alert.Title)
		return ErrStopped
	}

	select {
	case d.queue <- alert:
		return nil
	default:
		d.logger.Warn("alert queue full, dropping alert", "title", alert.Title)
		return ErrQueueFull
	}
}

// Start runs the delivery worker until the coordinator shuts down.
// Alerts still queued at shutdown are delivered before the worker exits.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) error {
	go d.run(lc.Context())

	lc.OnShutdown("alerts", func() {
		<-d.done
		d.logger.Info("alert dispatcher stopped")
	})

	return nil
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	for {
		select {
		case alert := <-d.queue:
			d.deliver(alert)
		case <-ctx.Done():
			d.mu.Lock()
			d.stopped = true
			d.mu.Unlock()

			for {
				select {
				case alert := <-d.queue:
					d.deliver(alert)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(alert Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, alert); err != nil {
		d.logger.Error("alert delivery failed", "title", alert.Title, "error", err)
		return
	}
	d.logger.Debug("alert delivered", "title", alert.Title)
}
