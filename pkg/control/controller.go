// Package control provides the fail-fast coordination used across a
// hazard calculation's fan-out stages: the first task to fail cancels the
// shared context so sibling tasks stop promptly, and the run is marked
// unable to produce a result. Grounded on the teacher's
// pkg/emergency/controller.go (a mutex-guarded stopped flag, a close-once
// channel, and registered callbacks fired on trigger) — generalized from a
// stop-file/signal watcher to a first-error-wins pipeline abort.
package control

import (
	"context"
	"fmt"
	"sync"
)

// FailFastController cancels a shared context on the first reported task
// error and records which task caused it. Not reusable across runs — one
// controller per hazard calculation.
type FailFastController struct {
	cancel context.CancelFunc

	mu      sync.Mutex
	failed  bool
	culprit string
	err     error
	stopCh  chan struct{}

	callbacks []func(culprit string, err error)
}

// New wraps ctx in a cancelable context and returns both the controller and
// the derived context every pipeline task should observe.
func New(ctx context.Context) (*FailFastController, context.Context) {
	derived, cancel := context.WithCancel(ctx)
	return &FailFastController{
		cancel: cancel,
		stopCh: make(chan struct{}),
	}, derived
}

// ReportError records a task failure. The first call cancels the
// controller's context and fires registered callbacks; later calls are
// no-ops, so only the first failure's identity survives.
func (c *FailFastController) ReportError(taskName string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return
	}
	c.failed = true
	c.culprit = taskName
	c.err = err
	close(c.stopCh)
	c.cancel()
	for _, cb := range c.callbacks {
		cb(taskName, err)
	}
}

// Failed reports whether any task has reported an error.
func (c *FailFastController) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// Err returns the recorded failure wrapped with the culprit task's name, or
// nil if no task has failed.
func (c *FailFastController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.failed {
		return nil
	}
	return fmt.Errorf("control: task %q failed: %w", c.culprit, c.err)
}

// StopChannel returns a channel that closes the moment a failure is
// reported, for callers that poll alongside a context.
func (c *FailFastController) StopChannel() <-chan struct{} {
	return c.stopCh
}

// OnFail registers a callback invoked with the culprit's name and error
// when the first failure is reported.
func (c *FailFastController) OnFail(callback func(taskName string, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, callback)
}
