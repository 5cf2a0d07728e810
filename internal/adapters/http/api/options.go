package api

import (
	"time"

	"github.com/okian/peerhire/internal/domain/hybrid"
	"github.com/okian/peerhire/pkg/logger"
)

const (
	corsMaxAge          = 86400
	defaultRequestLimit = 5
)

type options struct {
	version           string
	defaultLimit      int
	cfWeight          float64
	corsOrigins       []string
	rateLimitRequests int
	rateLimitWindow   time.Duration
	requestTimeout    time.Duration
	logger            logger.Logger
	docs              []DocsRegistrar
}

func defaultOptions() options {
	return options{
		version:         "dev",
		defaultLimit:    defaultRequestLimit,
		cfWeight:        hybrid.DefaultCFWeight,
		corsOrigins:     []string{"*"},
		rateLimitWindow: time.Minute,
	}
}

// Option configures the Server.
type Option func(*options)

// WithVersion sets the version reported by the health endpoints.
func WithVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.version = v
		}
	}
}

// WithDefaults sets the top-K and cf weight used when a request omits them.
func WithDefaults(limit int, cfWeight float64) Option {
	return func(o *options) {
		if limit > 0 {
			o.defaultLimit = limit
		}
		if cfWeight >= 0 && cfWeight <= 1 {
			o.cfWeight = cfWeight
		}
	}
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.corsOrigins = origins
		}
	}
}

// WithRateLimit limits each client IP to requests per window. 0 disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(o *options) {
		o.rateLimitRequests = requests
		if window > 0 {
			o.rateLimitWindow = window
		}
	}
}

// WithRequestTimeout bounds API handlers.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDocs mounts documentation routes on the router.
func WithDocs(d DocsRegistrar) Option {
	return func(o *options) {
		if d != nil {
			o.docs = append(o.docs, d)
		}
	}
}
