// Package lifecycle runs named startup checks and shutdown cleanups for
// the service's long-running systems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// HookError reports which startup hook failed.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// Coordinator owns the service context. Startup hooks run as soon as
// they are registered. Shutdown hooks run once the context is cancelled.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup

	mu       sync.Mutex
	ready    bool
	failures []error
	running  map[string]int
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		running: make(map[string]int),
	}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn now in its own goroutine. A returned error keeps the
// service not-ready and is reported by WaitForStartup.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	c.startup.Go(func() {
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failures = append(c.failures, &HookError{Hook: name, Err: err})
			c.mu.Unlock()
		}
	})
}

// OnShutdown runs fn after the context is cancelled.
func (c *Coordinator) OnShutdown(name string, fn func()) {
	c.mu.Lock()
	c.running[name]++
	c.mu.Unlock()

	c.shutdown.Go(func() {
		<-c.ctx.Done()
		fn()

		c.mu.Lock()
		if c.running[name]--; c.running[name] == 0 {
			delete(c.running, name)
		}
		c.mu.Unlock()
	})
}

func (c *Coordinator) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// WaitForStartup blocks until every startup hook has returned. It marks
// the coordinator ready only when none failed.
func (c *Coordinator) WaitForStartup() error {
	c.startup.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.failures) > 0 {
		return errors.Join(c.failures...)
	}
	c.ready = true
	return nil
}

// Shutdown cancels the context and waits up to timeout for shutdown
// hooks. On timeout the error names the hooks still running.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		c.mu.Lock()
		pending := slices.Sorted(maps.Keys(c.running))
		c.mu.Unlock()
		return fmt.Errorf("shutdown timeout after %v, still running: %v", timeout, pending)
	}
}
