package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/peerhire/internal/adapters/corpus"
	"github.com/okian/peerhire/internal/config"
	"github.com/okian/peerhire/internal/domain/evaluation"
)

// isolate points configuration at a fresh data directory and away from any
// .env or config file in the working tree.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvDotFile, filepath.Join(dir, "missing.env"))
	t.Setenv("PEERHIRE_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("PEERHIRE_LOG_LEVEL", "error")
	t.Setenv("PEERHIRE_GENERATE_IF_MISSING", "true")
	t.Setenv("PEERHIRE_CF_WEIGHT", "0.3")
	return dir
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		cmd := newRootCommand()

		convey.Convey("Then it exposes serve, generate and evaluate", func() {
			names := make([]string, 0)
			for _, c := range cmd.Commands() {
				names = append(names, c.Name())
			}
			convey.So(names, convey.ShouldContain, "serve")
			convey.So(names, convey.ShouldContain, "generate")
			convey.So(names, convey.ShouldContain, "evaluate")
		})

		convey.Convey("Then config and log level are persistent flags", func() {
			convey.So(cmd.PersistentFlags().Lookup("config"), convey.ShouldNotBeNil)
			convey.So(cmd.PersistentFlags().Lookup("log-level"), convey.ShouldNotBeNil)
		})

		convey.Convey("Then it serves when no subcommand is given", func() {
			convey.So(cmd.RunE, convey.ShouldNotBeNil)
		})
	})
}

func TestGenerateCommand(t *testing.T) {
	convey.Convey("Given an empty output directory", t, func() {
		out := filepath.Join(t.TempDir(), "corpus")

		convey.Convey("When generate runs with explicit sizes", func() {
			stdout, err := run("generate", "--out", out, "--freelancers", "12", "--jobs", "4", "--seed", "7")

			convey.So(err, convey.ShouldBeNil)
			convey.So(stdout, convey.ShouldContainSubstring, "wrote 12 freelancers and 4 jobs")

			convey.Convey("Then the corpus loads back", func() {
				c, err := corpus.NewFileLoader(out).Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(c.Freelancers), convey.ShouldEqual, 12)
				convey.So(len(c.Jobs), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When generate is given an unknown flag", func() {
			_, err := run("generate", "--bogus")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestEvaluateCommand(t *testing.T) {
	convey.Convey("Given a data directory without a corpus", t, func() {
		isolate(t)

		convey.Convey("When evaluate runs", func() {
			stdout, err := run("evaluate", "--top-n", "3")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then a sample corpus is generated and every job is evaluated", func() {
				var report evaluation.BatchReport
				convey.So(json.Unmarshal([]byte(stdout), &report), convey.ShouldBeNil)
				convey.So(report.Jobs, convey.ShouldEqual, 50)
				convey.So(report.Overall, convey.ShouldBeBetweenOrEqual, 0, 1)
				convey.So(report.Reports, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When per-job detail is requested", func() {
			stdout, err := run("evaluate", "--top-n", "2", "--detail")
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.Contains(stdout, `"job_id"`), convey.ShouldBeTrue)
		})

		convey.Convey("When generation is disabled", func() {
			t.Setenv("PEERHIRE_GENERATE_IF_MISSING", "false")
			_, err := run("evaluate")
			convey.So(errors.Is(err, corpus.ErrMissingFile), convey.ShouldBeTrue)
		})

		convey.Convey("When the configuration is invalid", func() {
			t.Setenv("PEERHIRE_CF_WEIGHT", "2")
			_, err := run("evaluate")
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the config flag names a missing file", func() {
			_, err := run("evaluate", "--config", "/non/existent/peerhire.yaml")
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}
