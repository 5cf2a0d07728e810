// Package evaluation measures the quality of a recommendation list against
// the job it was produced for.
package evaluation

import (
	"math"
	"sort"

	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/internal/domain/skillspace"
)

// Report holds the metrics of one recommendation list, each in [0,1].
type Report struct {
	JobID         string  `json:"job_id"`
	Recommended   int     `json:"recommended"`
	SkillCoverage float64 `json:"skill_coverage"`
	BudgetMatch   float64 `json:"budget_match"`
	Diversity     float64 `json:"diversity"`
}

// Evaluator scores lists with the same budget policy the ContentScorer uses.
type Evaluator struct {
	space  *skillspace.Space
	scorer *scoring.ContentScorer
}

// New creates an evaluator bound to a skill space and a scorer.
func New(space *skillspace.Space, scorer *scoring.ContentScorer) *Evaluator {
	return &Evaluator{space: space, scorer: scorer}
}

// Evaluate computes every metric for one list.
func (e *Evaluator) Evaluate(job *model.Job, recommended []model.Freelancer) Report {
	vectors := make([]skillspace.Vector, len(recommended))
	for i := range recommended {
		vectors[i] = e.space.Vectorize(recommended[i].Skills)
	}
	return Report{
		JobID:         job.ID,
		Recommended:   len(recommended),
		SkillCoverage: SkillCoverage(job.Skills, recommended),
		BudgetMatch:   e.BudgetMatch(job.Budget, recommended),
		Diversity:     Diversity(vectors),
	}
}

// SkillCoverage is the share of required skills held by at least one
// recommended freelancer. No required skills gives 0.
func SkillCoverage(required []string, recommended []model.Freelancer) float64 {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		if n := skillspace.Normalize(s); n != "" {
			want[n] = struct{}{}
		}
	}
	if len(want) == 0 {
		return 0
	}

	covered := make(map[string]struct{}, len(want))
	for i := range recommended {
		for _, s := range recommended[i].Skills {
			if n := skillspace.Normalize(s); n != "" {
				if _, ok := want[n]; ok {
					covered[n] = struct{}{}
				}
			}
		}
	}
	return float64(len(covered)) / float64(len(want))
}

// BudgetMatch is the mean budget sub-score of the recommended freelancers.
func (e *Evaluator) BudgetMatch(budget model.Budget, recommended []model.Freelancer) float64 {
	if len(recommended) == 0 {
		return 0
	}
	var sum float64
	for i := range recommended {
		sum += e.scorer.BudgetScore(budget, recommended[i].HourlyRate)
	}
	return sum / float64(len(recommended))
}

// Diversity is 1 minus the mean pairwise cosine of the skill vectors.
// Fewer than two vectors gives 0.
func Diversity(vectors []skillspace.Vector) float64 {
	if len(vectors) < 2 {
		return 0
	}
	var sum float64
	pairs := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sum += vectors[i].Cosine(vectors[j])
			pairs++
		}
	}
	return math.Max(0, math.Min(1, 1-sum/float64(pairs)))
}

// Summary describes the distribution of one metric across lists.
type Summary struct {
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// BatchReport aggregates many reports. Overall is the mean of the three averages.
type BatchReport struct {
	Jobs          int      `json:"jobs"`
	SkillCoverage Summary  `json:"skill_coverage"`
	BudgetMatch   Summary  `json:"budget_match"`
	Diversity     Summary  `json:"diversity"`
	Overall       float64  `json:"overall"`
	Reports       []Report `json:"reports,omitempty"`
}

// Summarize builds a BatchReport. Reports are kept in job id order.
func Summarize(reports []Report) BatchReport {
	sorted := make([]Report, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].JobID < sorted[j].JobID })

	pick := func(f func(Report) float64) Summary {
		vals := make([]float64, len(sorted))
		for i, r := range sorted {
			vals[i] = f(r)
		}
		return summarize(vals)
	}

	b := BatchReport{
		Jobs:          len(sorted),
		SkillCoverage: pick(func(r Report) float64 { return r.SkillCoverage }),
		BudgetMatch:   pick(func(r Report) float64 { return r.BudgetMatch }),
		Diversity:     pick(func(r Report) float64 { return r.Diversity }),
		Reports:       sorted,
	}
	if b.Jobs > 0 {
		b.Overall = (b.SkillCoverage.Average + b.BudgetMatch.Average + b.Diversity.Average) / 3
	}
	return b
}

func summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)

	var sum float64
	for _, v := range s {
		sum += v
	}
	mid := len(s) / 2
	median := s[mid]
	if len(s)%2 == 0 {
		median = (s[mid-1] + s[mid]) / 2
	}
	return Summary{Average: sum / float64(len(s)), Median: median, Min: s[0], Max: s[len(s)-1]}
}
