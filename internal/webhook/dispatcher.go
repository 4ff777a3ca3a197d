package webhook

import (
	"log/slog"
	"sync"
)

// Dispatcher runs event tasks in the background while the webhook response
// returns immediately. Completion is observable through Wait.
type Dispatcher struct {
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{logger: log.With(slog.String("component", "dispatcher"))}
}

// Go runs fn on its own goroutine. A panic in fn is recovered and logged;
// sibling tasks are unaffected.
func (d *Dispatcher) Go(fn func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("event task panicked", slog.Any("panic", r))
			}
		}()
		fn()
	}()
}

// Wait blocks until every dispatched task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
