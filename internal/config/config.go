// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat and match the koanf tags, so PEERHIRE_CF_WEIGHT maps to cf_weight.
// - New() returns defaults; Load() layers file and environment on top of them.
package config

import (
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// RequestTimeout bounds the handling time of a single HTTP request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// DataDir holds freelancers.json, jobs.json and the optional ratings.json.
	DataDir string `koanf:"data_dir"`

	// GenerateIfMissing writes a seeded sample corpus when DataDir has none.
	GenerateIfMissing bool `koanf:"generate_if_missing"`

	// WatchData reloads the snapshot when corpus files change.
	WatchData bool `koanf:"watch_data"`

	// ReloadDebounce coalesces bursts of file events into one reload.
	ReloadDebounce time.Duration `koanf:"reload_debounce"`

	// DefaultLimit is the top-K used when a request does not name one.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the top-K a request may ask for.
	MaxLimit int `koanf:"max_limit"`

	// CFWeight is the default collaborative weight in the hybrid blend.
	CFWeight float64 `koanf:"cf_weight"`

	// CFNeighbours caps the similar clients used per prediction. 0 uses all.
	CFNeighbours int `koanf:"cf_neighbours"`

	// Content-score weights. They must sum to 1.
	WeightSkills     float64 `koanf:"weight_skills"`
	WeightExperience float64 `koanf:"weight_experience"`
	WeightBudget     float64 `koanf:"weight_budget"`
	WeightRating     float64 `koanf:"weight_rating"`

	// ExperienceStep is the score lost per level of experience deficit.
	ExperienceStep float64 `koanf:"experience_step"`

	// BudgetTolerance is the decay margin as a multiple of the budget range width.
	BudgetTolerance float64 `koanf:"budget_tolerance"`

	// NeutralRating is the rating sub-score of freelancers with no ratings.
	NeutralRating float64 `koanf:"neutral_rating"`

	// FixedBudgetScore is the budget sub-score for fixed-price jobs.
	FixedBudgetScore float64 `koanf:"fixed_budget_score"`

	// EvaluationWorkers bounds the parallelism of batch evaluation.
	EvaluationWorkers int `koanf:"evaluation_workers"`

	// CORSAllowedOrigins is a comma-separated origin list.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindow per client IP. 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8000",
		RequestTimeout:     10 * time.Second,
		DataDir:            "data",
		GenerateIfMissing:  true,
		WatchData:          true,
		ReloadDebounce:     500 * time.Millisecond,
		DefaultLimit:       5,
		MaxLimit:           100,
		CFWeight:           0.30,
		CFNeighbours:       0,
		WeightSkills:       0.50,
		WeightExperience:   0.20,
		WeightBudget:       0.15,
		WeightRating:       0.15,
		ExperienceStep:     0.5,
		BudgetTolerance:    1.0,
		NeutralRating:      0.5,
		FixedBudgetScore:   0.5,
		EvaluationWorkers:  runtime.NumCPU(),
		CORSAllowedOrigins: "*",
		RateLimitRequests:  0,
		RateLimitWindow:    time.Minute,
	}
}

// Origins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
