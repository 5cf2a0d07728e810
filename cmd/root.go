package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/peerhire/internal/adapters/corpus"
	service "github.com/okian/peerhire/internal/app"
	"github.com/okian/peerhire/internal/config"
	"github.com/okian/peerhire/internal/datagen"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/pkg/logger"
)

var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	serve := newServeCommand(flags)

	cmd := &cobra.Command{
		Use:   "peerhire",
		Short: "Hybrid freelancer recommendation service",
		Long: `PeerHire ranks freelancers for a job by skill similarity, experience fit,
budget fit and rating, optionally blended with the ratings of similar clients.

Without a subcommand it runs the HTTP server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(serve)
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newEvaluateCommand(flags))
	return cmd
}

// setup loads configuration and initializes logging to the command's
// error stream, leaving stdout to command output.
func (f *rootFlags) setup(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	var opts []config.LoadOption
	if f.configPath != "" {
		opts = append(opts, config.WithFile(f.configPath))
	}
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// startService prepares the data directory and starts the recommendation
// service on it. The caller stops the service.
func startService(ctx context.Context, cfg *config.Config) (*service.Service, *corpus.FileLoader, error) {
	log := logger.Get()
	loader := corpus.NewFileLoader(cfg.DataDir)

	if loader.Missing() {
		if !cfg.GenerateIfMissing {
			return nil, nil, fmt.Errorf("%w in %s", corpus.ErrMissingFile, cfg.DataDir)
		}
		c, err := datagen.New().Save(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate sample data: %w", err)
		}
		log.Info(ctx, "generated sample corpus",
			logger.String("dataDir", cfg.DataDir),
			logger.Int("freelancers", len(c.Freelancers)),
			logger.Int("jobs", len(c.Jobs)),
		)
	}

	svc := service.New(
		service.WithLoader(loader),
		service.WithLogger(log),
		service.WithWeights(model.Weights{
			Skills:     cfg.WeightSkills,
			Experience: cfg.WeightExperience,
			Budget:     cfg.WeightBudget,
			Rating:     cfg.WeightRating,
		}),
		service.WithExperienceStep(cfg.ExperienceStep),
		service.WithBudgetTolerance(cfg.BudgetTolerance),
		service.WithNeutralRating(cfg.NeutralRating),
		service.WithFixedBudgetScore(cfg.FixedBudgetScore),
		service.WithCFNeighbours(cfg.CFNeighbours),
		service.WithLimits(service.Limits{
			DefaultLimit: cfg.DefaultLimit,
			MaxLimit:     cfg.MaxLimit,
			CFWeight:     cfg.CFWeight,
		}),
		service.WithEvaluationWorkers(cfg.EvaluationWorkers),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, loader, nil
}
