// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/peerhire/internal/adapters/repository"
	"github.com/okian/peerhire/internal/domain/collab"
	"github.com/okian/peerhire/internal/domain/evaluation"
	"github.com/okian/peerhire/internal/domain/hybrid"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/pkg/logger"
	"github.com/okian/peerhire/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultLimit    = 5
	defaultMaxLimit = 100
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// Loader reads a fresh corpus.
type Loader interface {
	Load(ctx context.Context) (recommend.Corpus, error)
}

// Limits are the request defaults and caps the API applies.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	CFWeight     float64
}

// Service implements the API dependencies for the recommendation engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  *repository.SnapshotStore
	loader Loader
	engine *recommend.Engine

	// Configuration
	scoringOpts []scoring.Option
	neighbours  int
	workers     int
	limits      Limits

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the corpus source.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWeights sets the content-score weights. They are validated at Start.
func WithWeights(w model.Weights) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, scoring.WithWeights(w))
	}
}

// WithExperienceStep sets the score lost per level of experience deficit.
func WithExperienceStep(step float64) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, scoring.WithExperienceStep(step))
	}
}

// WithBudgetTolerance sets the budget decay margin.
func WithBudgetTolerance(multiple float64) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, scoring.WithBudgetTolerance(multiple))
	}
}

// WithNeutralRating sets the rating sub-score for unrated freelancers.
func WithNeutralRating(v float64) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, scoring.WithNeutralRating(v))
	}
}

// WithFixedBudgetScore sets the budget sub-score for fixed-price jobs.
func WithFixedBudgetScore(v float64) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, scoring.WithFixedBudgetScore(v))
	}
}

// WithCFNeighbours caps the similar clients per prediction. 0 uses all.
func WithCFNeighbours(k int) Option {
	return func(s *Service) {
		if k >= 0 {
			s.neighbours = k
		}
	}
}

// WithLimits sets the default and maximum top-K and the default cf weight.
func WithLimits(l Limits) Option {
	return func(s *Service) {
		if l.DefaultLimit > 0 {
			s.limits.DefaultLimit = l.DefaultLimit
		}
		if l.MaxLimit > 0 {
			s.limits.MaxLimit = l.MaxLimit
		}
		if l.CFWeight >= 0 && l.CFWeight <= 1 {
			s.limits.CFWeight = l.CFWeight
		}
	}
}

// WithEvaluationWorkers bounds batch evaluation parallelism.
func WithEvaluationWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workers: runtime.NumCPU(),
		limits: Limits{
			DefaultLimit: defaultLimit,
			MaxLimit:     defaultMaxLimit,
			CFWeight:     hybrid.DefaultCFWeight,
		},
		logger: nil, // Will be replaced when service starts
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the scorer and engine and loads the first snapshot. A failed
// first load is returned; there is nothing older to fall back on.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		return errors.New("service: no corpus loader configured")
	}

	s.logger.Info(ctx, "starting recommendation service...")

	scorer, err := scoring.NewContentScorer(s.scoringOpts...)
	if err != nil {
		return fmt.Errorf("content scorer: %w", err)
	}
	s.engine = recommend.NewEngine(scorer,
		recommend.WithNeighbours(s.neighbours),
		recommend.WithEvaluationWorkers(s.workers),
	)
	s.store = repository.NewSnapshotStore()

	if err := s.reload(ctx, "startup"); err != nil {
		return err
	}

	s.started = true
	w := scorer.Weights()
	s.logger.Info(ctx, "recommendation service started",
		logger.Float64("weightSkills", w.Skills),
		logger.Float64("weightExperience", w.Experience),
		logger.Float64("weightBudget", w.Budget),
		logger.Float64("weightRating", w.Rating),
		logger.Int("cfNeighbours", s.neighbours),
		logger.Int("evaluationWorkers", s.workers),
	)
	return nil
}

// Stop marks the service stopped. Snapshots are garbage collected.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Reload loads the corpus and publishes a new snapshot. On failure the
// previous snapshot keeps serving and the error is returned.
func (s *Service) Reload(ctx context.Context, source string) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}
	return s.reload(ctx, source)
}

func (s *Service) reload(ctx context.Context, source string) error {
	start := time.Now()
	snap, err := s.store.Reload(ctx, s.loader.Load)
	if err != nil {
		s.logger.Error(ctx, "corpus reload failed",
			logger.String("source", source),
			logger.Uint64("activeVersion", s.store.Version()),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err),
		)
		return err
	}
	s.logger.Info(ctx, "corpus snapshot published",
		logger.String("source", source),
		logger.Uint64("version", snap.Version),
		logger.Int("freelancers", len(snap.Freelancers())),
		logger.Int("jobs", len(snap.Jobs())),
		logger.Int("clients", snap.Ratings.NumClients()),
		logger.Int("droppedRatings", snap.DroppedRatings),
		logger.Int("vocabulary", snap.Space.Len()),
		logger.Duration("duration", time.Since(start)),
	)
	return nil
}

// Limits returns the request defaults and caps.
func (s *Service) Limits() Limits {
	return s.limits
}

func (s *Service) snapshot() (*recommend.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, repository.ErrNoSnapshot
	}
	return store.Current()
}

// Recommend ranks freelancers for a job against the current snapshot.
func (s *Service) Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	start := time.Now()
	if req.Limit > s.limits.MaxLimit {
		metrics.RecordRecommendationError(errorReason(hybrid.ErrInvalidLimit))
		return nil, fmt.Errorf("%w: %d exceeds maximum %d", hybrid.ErrInvalidLimit, req.Limit, s.limits.MaxLimit)
	}
	snap, err := s.snapshot()
	if err != nil {
		metrics.RecordRecommendationError(errorReason(err))
		return nil, err
	}

	res, err := s.engine.Recommend(ctx, snap, req)
	if err != nil {
		metrics.RecordRecommendationError(errorReason(err))
		return nil, err
	}

	mode := metrics.ModeContent
	if req.UseCollaborative && req.ClientID != "" {
		mode = metrics.ModeHybrid
	}
	metrics.RecordRecommendation(mode, float64(time.Since(start).Microseconds())/1000, res.Candidates, res.Collaborative)
	return res, nil
}

// ClientRecommendations recommends for the client's latest job, or for a
// profile built from their rating history, blending in collaborative scores.
func (s *Service) ClientRecommendations(ctx context.Context, clientID string, limit int) (*recommend.Result, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	job, err := s.engine.ClientJob(snap, clientID)
	if err != nil {
		metrics.RecordRecommendationError(errorReason(err))
		return nil, err
	}
	return s.Recommend(ctx, recommend.Request{
		Job:              job,
		Limit:            limit,
		ClientID:         clientID,
		UseCollaborative: true,
		CFWeight:         s.limits.CFWeight,
	})
}

// CollaborativeRecommendations ranks freelancers the client has not rated by
// predicted rating alone.
func (s *Service) CollaborativeRecommendations(_ context.Context, clientID string, limit int) ([]collab.Prediction, error) {
	if err := hybrid.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if limit > s.limits.MaxLimit {
		return nil, fmt.Errorf("%w: %d exceeds maximum %d", hybrid.ErrInvalidLimit, limit, s.limits.MaxLimit)
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if !snap.Ratings.HasClient(clientID) {
		return nil, fmt.Errorf("%w: %s", recommend.ErrUnknownClient, clientID)
	}
	return collab.NewScorer(snap.Ratings, collab.WithMaxNeighbours(s.neighbours)).RecommendForClient(clientID, limit), nil
}

// SupportedSkills returns the current skill vocabulary.
func (s *Service) SupportedSkills(_ context.Context) ([]string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Space.Vocabulary(), nil
}

// Freelancer looks up a freelancer in the current snapshot.
func (s *Service) Freelancer(_ context.Context, id string) (*model.Freelancer, bool) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, false
	}
	return snap.Freelancer(id)
}

// Evaluate runs the batch evaluation over every corpus job.
func (s *Service) Evaluate(ctx context.Context, topN int) (evaluation.BatchReport, error) {
	if topN > s.limits.MaxLimit {
		return evaluation.BatchReport{}, fmt.Errorf("%w: %d exceeds maximum %d", hybrid.ErrInvalidLimit, topN, s.limits.MaxLimit)
	}
	snap, err := s.snapshot()
	if err != nil {
		return evaluation.BatchReport{}, err
	}
	start := time.Now()
	report, err := s.engine.Evaluate(ctx, snap, topN)
	if err != nil {
		return evaluation.BatchReport{}, err
	}
	metrics.UpdateEvaluation(report.SkillCoverage.Average, report.BudgetMatch.Average, report.Diversity.Average, report.Overall)
	s.logger.Info(ctx, "batch evaluation finished",
		logger.Uint64("version", snap.Version),
		logger.Int("jobs", report.Jobs),
		logger.Int("topN", topN),
		logger.Float64("overall", report.Overall),
		logger.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"defaultLimit": s.limits.DefaultLimit,
		"maxLimit":     s.limits.MaxLimit,
		"cfWeight":     s.limits.CFWeight,
		"cfNeighbours": s.neighbours,
	}
	if s.engine != nil {
		stats["weights"] = s.engine.Scorer().Weights()
	}
	if s.store != nil {
		if snap, err := s.store.Current(); err == nil {
			stats["snapshot"] = snap.Stats()
		}
		if f, ok := s.store.LastFailure(); ok {
			stats["lastReloadFailure"] = f
		}
	}
	return stats
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, hybrid.ErrInvalidLimit):
		return "invalid_limit"
	case errors.Is(err, hybrid.ErrInvalidWeight):
		return "invalid_cf_weight"
	case errors.Is(err, scoring.ErrInvalidWeights):
		return "invalid_weights"
	case errors.Is(err, recommend.ErrUnknownClient):
		return "unknown_client"
	case errors.Is(err, repository.ErrNoSnapshot):
		return "no_snapshot"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
