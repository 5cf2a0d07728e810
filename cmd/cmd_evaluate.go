package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newEvaluateCommand(flags *rootFlags) *cobra.Command {
	var (
		topN   int
		detail bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score recommendation quality over every corpus job",
		Long: `Run a content-only recommendation for every job in data_dir and print
the skill coverage, budget match and diversity summary as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := flags.setup(ctx, cmd)
			if err != nil {
				return err
			}
			svc, _, err := startService(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if topN == 0 {
				topN = cfg.DefaultLimit
			}
			report, err := svc.Evaluate(ctx, topN)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}
			if !detail {
				report.Reports = nil
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top-n", 0, "recommendations per job (default: default_limit)")
	cmd.Flags().BoolVar(&detail, "detail", false, "include per-job reports")
	return cmd
}
