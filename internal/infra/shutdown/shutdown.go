package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Coordinator coordinates graceful shutdown.
type Coordinator struct {
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	hooks []func(context.Context) error

	closing     chan struct{}
	closingOnce sync.Once
	done        chan struct{}
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger for the coordinator.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a shutdown coordinator with the given drain
// timeout.
func NewCoordinator(timeout time.Duration, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		timeout: timeout,
		logger:  slog.Default(),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (c *Coordinator) OnShutdown(hook func(context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Closing returns a channel that closes when shutdown begins.
func (c *Coordinator) Closing() <-chan struct{} {
	return c.closing
}

// Done returns a channel that closes when all hooks have finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Trigger begins shutdown programmatically. Idempotent.
func (c *Coordinator) Trigger() {
	c.closingOnce.Do(func() {
		close(c.closing)
	})
}

// Wait blocks for a termination signal (or Trigger), then runs the
// registered hooks. Further signals while draining are ignored.
func (c *Coordinator) Wait() error {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		c.logger.Info("shutdown signal received", "signal", sig.String())
	case <-c.closing:
	}
	c.Trigger()

	// Drain further signals so a second Ctrl-C does not kill the
	// process mid-drain.
	go func() {
		for {
			select {
			case sig := <-sigCh:
				c.logger.Info("already draining, signal ignored", "signal", sig.String())
			case <-c.done:
				return
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.mu.Lock()
	hooks := make([]func(context.Context) error, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	var lastErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			lastErr = err
		}
	}

	close(c.done)
	return lastErr
}
