// Package scoring computes the content-based match score of a freelancer
// for a job from four weighted sub-scores: skills, experience, budget and rating.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/skillspace"
)

// ErrInvalidWeights is returned when weights are negative or do not sum to 1.
var ErrInvalidWeights = errors.New("invalid content weights")

// Default scoring configuration constants.
const (
	defaultExperienceStep   = 0.5
	defaultBudgetTolerance  = 1.0
	defaultNeutralRating    = 0.5
	defaultFixedBudgetScore = 0.5

	weightEpsilon = 1e-9
)

// DefaultWeights are used unless WithWeights says otherwise.
var DefaultWeights = model.Weights{Skills: 0.50, Experience: 0.20, Budget: 0.15, Rating: 0.15}

// ValidateWeights checks every component is non-negative and the total is 1.
func ValidateWeights(w model.Weights) error {
	for _, v := range []float64{w.Skills, w.Experience, w.Budget, w.Rating} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: negative or non-finite component in %+v", ErrInvalidWeights, w)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightEpsilon {
		return fmt.Errorf("%w: components sum to %v", ErrInvalidWeights, sum)
	}
	return nil
}

// Option applies a configuration option to the ContentScorer.
type Option func(*ContentScorer)

// WithWeights replaces the default component weights.
func WithWeights(w model.Weights) Option {
	return func(s *ContentScorer) { s.weights = w }
}

// WithExperienceStep sets the score lost per level of experience deficit.
func WithExperienceStep(step float64) Option {
	return func(s *ContentScorer) {
		if step >= 0 {
			s.experienceStep = step
		}
	}
}

// WithBudgetTolerance sets the decay margin as a multiple of the range width.
func WithBudgetTolerance(multiple float64) Option {
	return func(s *ContentScorer) {
		if multiple > 0 {
			s.budgetTolerance = multiple
		}
	}
}

// WithNeutralRating sets the rating sub-score for freelancers with no ratings.
func WithNeutralRating(v float64) Option {
	return func(s *ContentScorer) {
		if v >= 0 && v <= 1 {
			s.neutralRating = v
		}
	}
}

// WithFixedBudgetScore sets the budget sub-score used when a job has no hourly range.
func WithFixedBudgetScore(v float64) Option {
	return func(s *ContentScorer) {
		if v >= 0 && v <= 1 {
			s.fixedBudgetScore = v
		}
	}
}

// Target is a job prepared for scoring.
type Target struct {
	Job     *model.Job
	Skills  skillspace.Vector
	Weights model.Weights
}

// Candidate is a freelancer prepared for scoring.
type Candidate struct {
	Freelancer *model.Freelancer
	Skills     skillspace.Vector
}

// Breakdown holds every sub-score and the weighted total, all in [0,1].
type Breakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Budget     float64 `json:"budget"`
	Rating     float64 `json:"rating"`
	Total      float64 `json:"total"`
}

// ContentScorer is stateless after construction and safe for concurrent use.
type ContentScorer struct {
	weights          model.Weights
	experienceStep   float64
	budgetTolerance  float64
	neutralRating    float64
	fixedBudgetScore float64
}

// NewContentScorer builds a scorer. It fails with ErrInvalidWeights when the
// configured weights do not sum to 1.
func NewContentScorer(opts ...Option) (*ContentScorer, error) {
	s := &ContentScorer{
		weights:          DefaultWeights,
		experienceStep:   defaultExperienceStep,
		budgetTolerance:  defaultBudgetTolerance,
		neutralRating:    defaultNeutralRating,
		fixedBudgetScore: defaultFixedBudgetScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateWeights(s.weights); err != nil {
		return nil, err
	}
	return s, nil
}

// Weights returns the configured default weights.
func (s *ContentScorer) Weights() model.Weights { return s.weights }

// WeightsFor resolves the weights for a job, honoring its overrides.
func (s *ContentScorer) WeightsFor(job *model.Job) (model.Weights, error) {
	if job == nil || job.Weights == nil {
		return s.weights, nil
	}
	if err := ValidateWeights(*job.Weights); err != nil {
		return model.Weights{}, err
	}
	return *job.Weights, nil
}

// Score computes the content score of one (job, freelancer) pair.
func (s *ContentScorer) Score(t Target, c Candidate) Breakdown {
	b := Breakdown{
		Skills:     clamp01(t.Skills.Cosine(c.Skills)),
		Experience: s.ExperienceScore(t.Job.Experience, c.Freelancer.Experience),
		Budget:     s.BudgetScore(t.Job.Budget, c.Freelancer.HourlyRate),
		Rating:     s.RatingScore(c.Freelancer),
	}
	w := t.Weights
	b.Total = clamp01(b.Skills*w.Skills + b.Experience*w.Experience + b.Budget*w.Budget + b.Rating*w.Rating)
	return b
}

// ExperienceScore is 1 when the freelancer meets the requirement and loses
// one step per level of deficit, floored at 0.
func (s *ContentScorer) ExperienceScore(required, actual model.ExperienceLevel) float64 {
	deficit := int(required) - int(actual)
	if deficit <= 0 {
		return 1
	}
	return clamp01(1 - float64(deficit)*s.experienceStep)
}

// BudgetScore is 1 inside [min,max] and decays linearly to 0 at one margin
// outside the range in either direction. The margin is the range width times
// the tolerance. A zero-width range uses its rate as the width. Fixed-price
// budgets have no range and get the configured fixed score.
func (s *ContentScorer) BudgetScore(budget model.Budget, rate float64) float64 {
	lo, hi, ok := budget.HourlyRange()
	if !ok {
		return s.fixedBudgetScore
	}
	if rate >= lo && rate <= hi {
		return 1
	}

	width := hi - lo
	if width <= 0 {
		width = hi
	}
	margin := width * s.budgetTolerance
	if margin <= 0 {
		return 0
	}

	var distance float64
	if rate > hi {
		distance = rate - hi
	} else {
		distance = lo - rate
	}
	return clamp01(1 - distance/margin)
}

// RatingScore maps the aggregate rating onto [0,1]. Unrated freelancers get
// the neutral score instead of 0. A missing aggregate falls back to the mean
// of the project ratings.
func (s *ContentScorer) RatingScore(f *model.Freelancer) float64 {
	if !f.Rated() {
		return s.neutralRating
	}
	avg := f.AvgRating
	if avg == 0 {
		ratings := f.ProjectRatings()
		for _, r := range ratings {
			avg += r
		}
		avg /= float64(len(ratings))
	}
	return clamp01(avg / model.MaxRating)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
