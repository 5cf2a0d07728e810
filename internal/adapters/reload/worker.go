package reload

import (
	"context"
	"time"

	"github.com/okian/peerhire/pkg/logger"
)

// Default worker configuration constants.
const (
	defaultDebounce = 500 * time.Millisecond
)

// Reloader rebuilds the active snapshot.
type Reloader interface {
	Reload(ctx context.Context, source string) error
}

// Source delivers reload requests.
type Source interface {
	C() <-chan Request
}

// Worker consumes requests and runs one reload per debounce window.
type Worker struct {
	source   Source
	reloader Reloader
	debounce time.Duration
	logger   logger.Logger
}

// NewWorker creates a reload worker.
func NewWorker(source Source, reloader Reloader, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		reloader: reloader,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt.applyWorker(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("reload-worker")
	}
	return w
}

// Serve runs until ctx is cancelled or the source is closed. Failed reloads
// are logged; the worker keeps running.
func (w *Worker) Serve(ctx context.Context) error {
	requests := w.source.C()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			if !w.settle(ctx, requests) {
				return ctx.Err()
			}
			if err := w.reloader.Reload(ctx, req.Source); err != nil {
				w.logger.Error(ctx, "reload failed", logger.String("source", req.Source), logger.Error(err))
			}
		}
	}
}

// settle waits out the debounce window, absorbing requests that arrive
// during it. It reports false if ctx ends first.
func (w *Worker) settle(ctx context.Context, requests <-chan Request) bool {
	if w.debounce <= 0 {
		return true
	}
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		case _, ok := <-requests:
			if !ok {
				return true
			}
		}
	}
}
