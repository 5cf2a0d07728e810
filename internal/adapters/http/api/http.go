// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/peerhire/internal/domain/collab"
	"github.com/okian/peerhire/internal/domain/evaluation"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/pkg/logger"
	"github.com/okian/peerhire/pkg/metrics"
)

// Recommender runs recommendation passes against the active snapshot.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	ClientRecommendations(ctx context.Context, clientID string, limit int) (*recommend.Result, error)
	CollaborativeRecommendations(ctx context.Context, clientID string, limit int) ([]collab.Prediction, error)
	SupportedSkills(ctx context.Context) ([]string, error)
}

// Evaluator runs the batch evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, topN int) (evaluation.BatchReport, error)
}

// Reloader rebuilds the snapshot synchronously.
type Reloader interface {
	Reload(ctx context.Context, source string) error
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recommender
	Evaluator
	Reloader
	StatsProvider
}

// DocsRegistrar mounts documentation routes.
type DocsRegistrar func(ctx context.Context, r chi.Router)

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies
	opts options

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	clientHandler    *ClientHandler
	skillsHandler    *SkillsHandler
	evalHandler      *EvaluationHandler
	adminHandler     *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("http")
	}
	return &Server{
		deps:             deps,
		opts:             o,
		healthHandler:    NewHealthHandler(o.version),
		statsHandler:     NewStatsHandler(deps),
		recommendHandler: NewRecommendHandler(deps, o.defaultLimit, o.cfWeight),
		clientHandler:    NewClientHandler(deps, o.defaultLimit),
		skillsHandler:    NewSkillsHandler(deps),
		evalHandler:      NewEvaluationHandler(deps, o.defaultLimit),
		adminHandler:     NewAdminHandler(deps, o.logger),
	}
}

// Handler builds the router.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         corsMaxAge,
	}))
	if s.opts.rateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(s.opts.rateLimitRequests, s.opts.rateLimitWindow))
	}
	r.Use(MetricsMiddleware)

	r.Get("/", s.healthHandler.HandleRoot)
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/health", s.healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.opts.requestTimeout > 0 {
			r.Use(DeadlineMiddleware(s.opts.requestTimeout))
		}
		r.Post("/recommend", s.recommendHandler.HandleRecommend)
		r.Get("/supported-skills", s.skillsHandler.HandleSupportedSkills)
		r.Get("/client/{clientID}/recommendations", s.clientHandler.HandleClientRecommendations)
		r.Get("/client/{clientID}/collaborative", s.clientHandler.HandleCollaborative)
		r.Get("/evaluation", s.evalHandler.HandleEvaluation)
		r.Get("/stats", s.statsHandler.HandleStats)
		r.Post("/admin/reload", s.adminHandler.HandleReload)
	})

	for _, docs := range s.opts.docs {
		docs(ctx, r)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes the matching error response.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	resp := errorResponse{Code: code, Message: err.Error()}
	if fields := validationFields(err); fields != nil {
		resp.Fields = fields
	}
	writeJSON(w, status, resp)
}
