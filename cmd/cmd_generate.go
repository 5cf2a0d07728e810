package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/peerhire/internal/datagen"
)

func newGenerateCommand() *cobra.Command {
	var (
		seed        uint64
		freelancers int
		jobs        int
		clients     int
		out         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a seeded sample corpus",
		Long: `Write freelancers.json and jobs.json to --out. The same seed always
produces the same corpus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := datagen.New(
				datagen.WithSeed(seed),
				datagen.WithSize(freelancers, jobs),
				datagen.WithClients(clients),
			).Save(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d freelancers and %d jobs to %s\n", len(c.Freelancers), len(c.Jobs), out)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", datagen.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&freelancers, "freelancers", datagen.DefaultFreelancers, "number of freelancers")
	cmd.Flags().IntVar(&jobs, "jobs", datagen.DefaultJobs, "number of jobs")
	cmd.Flags().IntVar(&clients, "clients", datagen.DefaultClients, "size of the client pool")
	cmd.Flags().StringVar(&out, "out", "data", "output directory")
	return cmd
}
