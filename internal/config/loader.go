package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "PEERHIRE_"
	EnvConfigFile = "PEERHIRE_CONFIG"
	EnvDotFile    = "PEERHIRE_ENV_FILE"

	defaultDotFile = ".env"
	weightEpsilon  = 1e-9
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// LoadOption adjusts a single Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file string
}

// WithFile names the YAML file to load, taking precedence over PEERHIRE_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) { o.file = path }
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from WithFile or PEERHIRE_CONFIG
//  3. .env file (PEERHIRE_ENV_FILE, default ".env"), never overriding the real environment
//  4. env (prefix PEERHIRE_)
func Load(_ context.Context, opts ...LoadOption) (*Config, error) {
	base := New()
	lo := loadOptions{file: os.Getenv(EnvConfigFile)}
	for _, opt := range opts {
		opt(&lo)
	}

	dotFile := os.Getenv(EnvDotFile)
	if dotFile == "" {
		dotFile = defaultDotFile
	}
	if err := godotenv.Load(dotFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotFile, err)
	}

	k := koanf.New(".")

	if path := lo.file; path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PEERHIRE_CF_WEIGHT -> cf_weight. Underscores are kept to match the flat tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.DataDir == "":
		return invalid("data_dir must not be empty")
	case c.DefaultLimit < 1:
		return invalid("default_limit must be >= 1, got %d", c.DefaultLimit)
	case c.MaxLimit < c.DefaultLimit:
		return invalid("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	case math.IsNaN(c.CFWeight) || c.CFWeight < 0 || c.CFWeight > 1:
		return invalid("cf_weight must be within [0,1], got %v", c.CFWeight)
	case c.CFNeighbours < 0:
		return invalid("cf_neighbours must be >= 0, got %d", c.CFNeighbours)
	case c.ExperienceStep < 0:
		return invalid("experience_step must be >= 0, got %v", c.ExperienceStep)
	case c.BudgetTolerance <= 0:
		return invalid("budget_tolerance must be > 0, got %v", c.BudgetTolerance)
	case c.NeutralRating < 0 || c.NeutralRating > 1:
		return invalid("neutral_rating must be within [0,1], got %v", c.NeutralRating)
	case c.FixedBudgetScore < 0 || c.FixedBudgetScore > 1:
		return invalid("fixed_budget_score must be within [0,1], got %v", c.FixedBudgetScore)
	case c.EvaluationWorkers < 1:
		return invalid("evaluation_workers must be >= 1, got %d", c.EvaluationWorkers)
	case c.RateLimitRequests < 0:
		return invalid("rate_limit_requests must be >= 0, got %d", c.RateLimitRequests)
	case c.RateLimitRequests > 0 && c.RateLimitWindow <= 0:
		return invalid("rate_limit_window must be > 0 when rate limiting is enabled")
	}

	weights := []float64{c.WeightSkills, c.WeightExperience, c.WeightBudget, c.WeightRating}
	sum := 0.0
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return invalid("content weights must be non-negative")
		}
		sum += w
	}
	if math.Abs(sum-1) > weightEpsilon {
		return invalid("content weights must sum to 1, got %v", sum)
	}
	return nil
}
