package reload

import (
	"time"

	"github.com/okian/peerhire/pkg/logger"
)

// Option configures a Worker or a Watcher.
type Option interface {
	applyWorker(*Worker)
	applyWatcher(*Watcher)
}

type optionFunc struct {
	worker  func(*Worker)
	watcher func(*Watcher)
}

func (o optionFunc) applyWorker(w *Worker) {
	if o.worker != nil {
		o.worker(w)
	}
}

func (o optionFunc) applyWatcher(w *Watcher) {
	if o.watcher != nil {
		o.watcher(w)
	}
}

// WithDebounce sets the window over which worker requests are merged.
func WithDebounce(d time.Duration) Option {
	return optionFunc{worker: func(w *Worker) {
		if d >= 0 {
			w.debounce = d
		}
	}}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return optionFunc{
		worker: func(w *Worker) {
			if l != nil {
				w.logger = l
			}
		},
		watcher: func(w *Watcher) {
			if l != nil {
				w.logger = l
			}
		},
	}
}
