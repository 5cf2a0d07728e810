// Package repository holds the active corpus snapshot and swaps it atomically
// on reload.
package repository

import (
	"context"

	"github.com/okian/peerhire/internal/domain/recommend"
)

// LoadFunc reads a fresh corpus.
type LoadFunc func(ctx context.Context) (recommend.Corpus, error)

// Store provides read access to the active snapshot and rebuilds it.
type Store interface {
	// Current returns the active snapshot, or ErrNoSnapshot before the first
	// successful reload.
	Current() (*recommend.Snapshot, error)

	// Reload loads and builds a new snapshot and publishes it. On failure the
	// previous snapshot stays active.
	Reload(ctx context.Context, load LoadFunc) (*recommend.Snapshot, error)

	// LastFailure reports the most recent reload failure, if any.
	LastFailure() (Failure, bool)
}
