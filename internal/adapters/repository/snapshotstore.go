package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/pkg/metrics"
)

// SnapshotStore publishes snapshots through an atomic pointer. Readers never
// lock; reloads are serialized so versions increase by one per publish.
type SnapshotStore struct {
	mu sync.Mutex

	snapshot atomic.Pointer[recommend.Snapshot]
	failure  atomic.Pointer[Failure]

	build func(recommend.Corpus) (*recommend.Snapshot, error)
	now   func() time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		build: recommend.BuildSnapshot,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the active snapshot.
func (s *SnapshotStore) Current() (*recommend.Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Version is the active snapshot version, 0 when none is loaded.
func (s *SnapshotStore) Version() uint64 {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Version
	}
	return 0
}

// Reload builds and publishes a new snapshot.
func (s *SnapshotStore) Reload(ctx context.Context, load LoadFunc) (*recommend.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	snap, err := s.rebuild(ctx, load)
	ms := float64(s.now().Sub(start).Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordSnapshotReload(metrics.ResultFailure, ms)
		s.failure.Store(&Failure{At: s.now(), Err: err.Error(), ActiveVersion: s.Version()})
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}

	snap.Version = s.Version() + 1
	snap.BuiltAt = s.now()
	s.snapshot.Store(snap)

	metrics.RecordSnapshotReload(metrics.ResultSuccess, ms)
	metrics.UpdateSnapshot(metrics.SnapshotSize{
		Version:     snap.Version,
		Freelancers: len(snap.Freelancers()),
		Jobs:        len(snap.Jobs()),
		Clients:     snap.Ratings.NumClients(),
		Vocabulary:  snap.Space.Len(),
		PublishedAt: float64(snap.BuiltAt.Unix()),
	})
	return snap, nil
}

func (s *SnapshotStore) rebuild(ctx context.Context, load LoadFunc) (*recommend.Snapshot, error) {
	corpus, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.build(corpus)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}

// LastFailure reports the most recent failed reload.
func (s *SnapshotStore) LastFailure() (Failure, bool) {
	f := s.failure.Load()
	if f == nil {
		return Failure{}, false
	}
	return *f, true
}
