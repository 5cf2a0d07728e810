package reload

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/peerhire/pkg/logger"
)

// Requester accepts reload requests.
type Requester interface {
	Request(ctx context.Context, source string) (bool, error)
}

// Watcher requests a reload whenever one of the watched files in a directory
// is written, created, renamed or removed. Watching the directory rather than
// the files survives editors that replace files on save.
type Watcher struct {
	dir     string
	files   map[string]struct{}
	trigger Requester
	logger  logger.Logger
}

// NewWatcher watches the named files inside dir.
func NewWatcher(dir string, files []string, trigger Requester, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		files:   make(map[string]struct{}, len(files)),
		trigger: trigger,
	}
	for _, f := range files {
		w.files[filepath.Base(f)] = struct{}{}
	}
	for _, opt := range opts {
		opt.applyWatcher(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("data-watcher")
	}
	return w
}

// Relevant reports whether ev should trigger a reload.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if _, ok := w.files[filepath.Base(ev.Name)]; !ok {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// Serve watches until ctx is cancelled.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info(ctx, "watching data directory", logger.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(ev) {
				continue
			}
			w.logger.Debug(ctx, "data file changed", logger.String("file", ev.Name), logger.String("op", ev.Op.String()))
			if _, err := w.trigger.Request(ctx, SourceWatcher); err != nil {
				return fmt.Errorf("request reload: %w", err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "watcher error", logger.Error(err))
		}
	}
}
