// Package corpus reads the freelancer, job and rating records from a data
// directory.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/internal/validation"
)

// File names inside the data directory.
const (
	FreelancersFile = "freelancers.json"
	JobsFile        = "jobs.json"
	RatingsFile     = "ratings.json"
)

var (
	ErrMissingFile   = errors.New("corpus file missing")
	ErrInvalidRecord = errors.New("invalid corpus record")
)

// FileLoader loads a corpus from JSON files in Dir. freelancers.json and
// jobs.json are required; ratings.json is optional.
type FileLoader struct {
	Dir string
}

// NewFileLoader creates a loader for dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

// Files lists the paths the loader reads, required files first.
func (l *FileLoader) Files() []string {
	return []string{
		filepath.Join(l.Dir, FreelancersFile),
		filepath.Join(l.Dir, JobsFile),
		filepath.Join(l.Dir, RatingsFile),
	}
}

// Missing reports whether any required file is absent.
func (l *FileLoader) Missing() bool {
	for _, p := range l.Files()[:2] {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			return true
		}
	}
	return false
}

// Load reads and validates all three files concurrently.
func (l *FileLoader) Load(ctx context.Context) (recommend.Corpus, error) {
	var c recommend.Corpus
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readRecords(filepath.Join(l.Dir, FreelancersFile), true, &c.Freelancers, validateFreelancer)
	})
	g.Go(func() error {
		return readRecords(filepath.Join(l.Dir, JobsFile), true, &c.Jobs, validateJob)
	})
	g.Go(func() error {
		return readRecords(filepath.Join(l.Dir, RatingsFile), false, &c.Ratings, validateRating)
	})
	if err := g.Wait(); err != nil {
		return recommend.Corpus{}, err
	}
	if err := ctx.Err(); err != nil {
		return recommend.Corpus{}, err
	}
	return c, nil
}

func readRecords[T any](path string, required bool, out *[]T, check func(int, *T) error) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, filepath.Base(path), err)
	}
	for i := range records {
		if err := check(i, &records[i]); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, filepath.Base(path), err)
		}
	}
	*out = records
	return nil
}

func validateFreelancer(i int, f *model.Freelancer) error {
	if err := validation.ValidateStruct(f); err != nil {
		return fmt.Errorf("record %d (%s): %w", i, f.ID, err)
	}
	return nil
}

func validateJob(i int, j *model.Job) error {
	if err := validation.ValidateStruct(j); err != nil {
		return fmt.Errorf("record %d (%s): %w", i, j.ID, err)
	}
	if err := j.Budget.Validate(); err != nil {
		return fmt.Errorf("record %d (%s): %w", i, j.ID, err)
	}
	if j.Weights != nil {
		if err := scoring.ValidateWeights(*j.Weights); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, j.ID, err)
		}
	}
	return nil
}

func validateRating(i int, r *model.Rating) error {
	if err := validation.ValidateStruct(r); err != nil {
		return fmt.Errorf("record %d: %w", i, err)
	}
	return nil
}
