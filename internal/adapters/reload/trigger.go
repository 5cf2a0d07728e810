// Package reload turns reload requests from several sources into serialized
// snapshot rebuilds.
//
// Requests are coalesced: at most one reload is pending at a time, and any
// request arriving while one is pending is folded into it.
package reload

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/peerhire/pkg/metrics"
)

// Sources of reload requests.
const (
	SourceStartup = "startup"
	SourceAdmin   = "admin"
	SourceWatcher = "fsnotify"
)

// ErrClosed is returned when requesting a reload on a closed trigger.
var ErrClosed = errors.New("reload trigger closed")

// Request is a pending reload.
type Request struct {
	Source string
}

// Trigger is a one-slot, coalescing request channel.
type Trigger struct {
	pending chan Request

	mu     sync.RWMutex
	closed bool
}

// NewTrigger creates an open trigger.
func NewTrigger() *Trigger {
	return &Trigger{pending: make(chan Request, 1)}
}

// Request asks for a reload. It never blocks; it reports false when the
// request was merged into one already pending.
func (t *Trigger) Request(ctx context.Context, source string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	metrics.RecordReloadRequest(source)
	select {
	case t.pending <- Request{Source: source}:
		return true, nil
	default:
		metrics.RecordReloadCoalesced()
		return false, nil
	}
}

// C delivers pending requests. It is closed by Close.
func (t *Trigger) C() <-chan Request {
	return t.pending
}

// Close stops accepting requests.
func (t *Trigger) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	close(t.pending)
	t.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (t *Trigger) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}
