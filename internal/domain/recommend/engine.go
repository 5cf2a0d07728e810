package recommend

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/peerhire/internal/domain/collab"
	"github.com/okian/peerhire/internal/domain/evaluation"
	"github.com/okian/peerhire/internal/domain/hybrid"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/internal/domain/skillspace"
	"github.com/okian/peerhire/internal/domain/types"
)

const ctxCheckEvery = 256

// Request describes one recommendation pass.
type Request struct {
	Job              *model.Job
	Limit            int
	ClientID         string
	UseCollaborative bool
	CFWeight         float64
}

// Match is a ranked entry together with the freelancer and its sub-scores.
type Match struct {
	types.Entry
	Freelancer *model.Freelancer
	Breakdown  scoring.Breakdown
}

// Result is the outcome of a recommendation pass.
type Result struct {
	SnapshotVersion uint64
	Job             *model.Job
	Matches         []Match
	Candidates      int
	Collaborative   int
}

// Entries returns the ranked entries without freelancer details.
func (r *Result) Entries() []types.Entry {
	out := make([]types.Entry, len(r.Matches))
	for i, m := range r.Matches {
		out[i] = m.Entry
	}
	return out
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNeighbours caps the similar clients used per collaborative prediction.
func WithNeighbours(k int) EngineOption {
	return func(e *Engine) {
		if k >= 0 {
			e.neighbours = k
		}
	}
}

// WithEvaluationWorkers bounds the parallelism of Evaluate.
func WithEvaluationWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// Engine is stateless apart from its configuration; every call takes the
// snapshot to read from.
type Engine struct {
	scorer     *scoring.ContentScorer
	neighbours int
	workers    int
}

// NewEngine creates an engine around a content scorer.
func NewEngine(scorer *scoring.ContentScorer, opts ...EngineOption) *Engine {
	e := &Engine{scorer: scorer, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the content scorer.
func (e *Engine) Scorer() *scoring.ContentScorer { return e.scorer }

// Recommend scores every freelancer in the snapshot for the job, blends in
// the collaborative signal when asked and a client is known, and returns the
// top Limit entries. Parameters are validated before any scoring.
func (e *Engine) Recommend(ctx context.Context, snap *Snapshot, req Request) (*Result, error) {
	if err := hybrid.ValidateLimit(req.Limit); err != nil {
		return nil, err
	}
	if err := hybrid.ValidateWeight(req.CFWeight); err != nil {
		return nil, err
	}
	if req.Job == nil {
		return nil, fmt.Errorf("recommend: nil job")
	}
	weights, err := e.scorer.WeightsFor(req.Job)
	if err != nil {
		return nil, err
	}

	target := scoring.Target{Job: req.Job, Skills: snap.Space.Vectorize(req.Job.Skills), Weights: weights}

	var cm *collab.ClientModel
	if req.UseCollaborative && req.ClientID != "" {
		cm = collab.NewScorer(snap.Ratings, collab.WithMaxNeighbours(e.neighbours)).ForClient(req.ClientID)
	}

	entries := make([]types.Entry, 0, len(snap.freelancers))
	breakdowns := make(map[string]scoring.Breakdown, len(snap.freelancers))
	withCF := 0
	for i := range snap.freelancers {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		f := &snap.freelancers[i]
		b := e.scorer.Score(target, scoring.Candidate{Freelancer: f, Skills: snap.vectors[i]})

		var cf *float64
		if cm != nil {
			if v, ok := cm.Predict(f.ID); ok {
				cf = &v
				withCF++
			}
		}
		blended, err := hybrid.Blend(b.Total, cf, req.CFWeight)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.Entry{
			FreelancerID:       f.ID,
			ContentScore:       b.Total,
			CollaborativeScore: cf,
			BlendedScore:       blended,
		})
		breakdowns[f.ID] = b
	}

	ranked, err := hybrid.Rank(entries, req.Limit)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(ranked))
	for i, entry := range ranked {
		f, _ := snap.Freelancer(entry.FreelancerID)
		matches[i] = Match{Entry: entry, Freelancer: f, Breakdown: breakdowns[entry.FreelancerID]}
	}

	return &Result{
		SnapshotVersion: snap.Version,
		Job:             req.Job,
		Matches:         matches,
		Candidates:      len(entries),
		Collaborative:   withCF,
	}, nil
}

// ClientJob picks the job to recommend for on behalf of a client: the
// client's most recent job, or else a profile aggregated from the
// freelancers the client rated at or above their own mean rating.
func (e *Engine) ClientJob(snap *Snapshot, clientID string) (*model.Job, error) {
	if job, ok := snap.LatestJob(clientID); ok {
		cp := *job
		return &cp, nil
	}
	if !snap.Ratings.HasClient(clientID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClient, clientID)
	}

	row := snap.Ratings.Row(clientID)
	var mean float64
	for _, r := range row {
		mean += r
	}
	mean /= float64(len(row))

	ids := make([]string, 0, len(row))
	for id, r := range row {
		if r >= mean {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	skills := make(map[string]struct{})
	job := &model.Job{ID: "profile:" + clientID, ClientID: clientID, Title: "aggregate profile"}
	lo, hi := 0.0, 0.0
	for _, id := range ids {
		f, ok := snap.Freelancer(id)
		if !ok {
			continue
		}
		for _, s := range f.Skills {
			if n := skillspace.Normalize(s); n != "" {
				skills[n] = struct{}{}
			}
		}
		if lo == 0 || f.HourlyRate < lo {
			lo = f.HourlyRate
		}
		if f.HourlyRate > hi {
			hi = f.HourlyRate
		}
		if job.Experience == model.ExperienceUnset || f.Experience < job.Experience {
			job.Experience = f.Experience
		}
	}
	if len(skills) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable rating history", ErrUnknownClient, clientID)
	}

	for s := range skills {
		job.Skills = append(job.Skills, s)
	}
	sort.Strings(job.Skills)
	job.Budget = model.Budget{Type: model.BudgetHourly, MinRate: lo, MaxRate: hi}
	return job, nil
}

// Evaluate runs a content-only recommendation of size topN for every corpus
// job and summarizes the list quality.
func (e *Engine) Evaluate(ctx context.Context, snap *Snapshot, topN int) (evaluation.BatchReport, error) {
	if err := hybrid.ValidateLimit(topN); err != nil {
		return evaluation.BatchReport{}, err
	}
	ev := evaluation.New(snap.Space, e.scorer)
	jobs := snap.Jobs()
	reports := make([]evaluation.Report, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range jobs {
		g.Go(func() error {
			res, err := e.Recommend(gctx, snap, Request{Job: &jobs[i], Limit: topN})
			if err != nil {
				return fmt.Errorf("job %s: %w", jobs[i].ID, err)
			}
			recommended := make([]model.Freelancer, len(res.Matches))
			for j, m := range res.Matches {
				recommended[j] = *m.Freelancer
			}
			reports[i] = ev.Evaluate(&jobs[i], recommended)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return evaluation.BatchReport{}, err
	}
	return evaluation.Summarize(reports), nil
}
