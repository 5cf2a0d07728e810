package repository

import (
	"time"

	"github.com/okian/peerhire/internal/domain/recommend"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithBuilder replaces the snapshot builder.
func WithBuilder(build func(recommend.Corpus) (*recommend.Snapshot, error)) Option {
	return func(s *SnapshotStore) {
		if build != nil {
			s.build = build
		}
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}
