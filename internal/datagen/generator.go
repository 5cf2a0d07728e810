// Package datagen produces a reproducible sample corpus.
package datagen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/peerhire/internal/adapters/corpus"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/recommend"
)

// Defaults for a generated corpus.
const (
	DefaultSeed        = 42
	DefaultFreelancers = 100
	DefaultJobs        = 50
	DefaultClients     = 30
)

// Ranges used when drawing records.
const (
	minSkills         = 3
	maxSkills         = 8
	minJobSkills      = 2
	maxJobSkills      = 6
	maxCategories     = 4
	maxPerCategory    = 3
	minHourlyRate     = 15.0
	maxHourlyRate     = 150.0
	maxExperienceYrs  = 15
	maxProjects       = 30
	minProjectRating  = 3
	maxProjectRating  = 5
	maxProjectAgeDays = 720
	maxJobAgeDays     = 30
	minTimelineDays   = 7
	maxTimelineDays   = 180

	dirPermission  = 0o755
	filePermission = 0o644
)

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithSize sets the number of freelancers and jobs.
func WithSize(freelancers, jobs int) Option {
	return func(g *Generator) {
		if freelancers > 0 {
			g.freelancers = freelancers
		}
		if jobs >= 0 {
			g.jobs = jobs
		}
	}
}

// WithClients sets the size of the shared client pool.
func WithClients(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.clients = n
		}
	}
}

// WithClock fixes the reference time used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator draws freelancers and jobs from a seeded source. Clients are
// drawn from a shared pool so rating histories overlap.
type Generator struct {
	seed        uint64
	freelancers int
	jobs        int
	clients     int
	now         func() time.Time

	rng *rand.Rand
}

// New creates a generator with the default sizes and seed.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:        DefaultSeed,
		freelancers: DefaultFreelancers,
		jobs:        DefaultJobs,
		clients:     DefaultClients,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a corpus. Calls with the same seed and clock produce the
// same records.
func (g *Generator) Generate() recommend.Corpus {
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed))
	now := g.now().UTC().Truncate(time.Second)

	clients := make([]string, g.clients)
	for i := range clients {
		clients[i] = fmt.Sprintf("C%04d", i+1)
	}

	c := recommend.Corpus{
		Freelancers: make([]model.Freelancer, 0, g.freelancers),
		Jobs:        make([]model.Job, 0, g.jobs),
	}
	for i := 0; i < g.freelancers; i++ {
		c.Freelancers = append(c.Freelancers, g.freelancer(i+1, clients, now))
	}
	for i := 0; i < g.jobs; i++ {
		c.Jobs = append(c.Jobs, g.job(i+1, clients, now))
	}
	return c
}

func (g *Generator) freelancer(n int, clients []string, now time.Time) model.Freelancer {
	id := fmt.Sprintf("F%04d", n)
	skills := g.skills(g.between(minSkills, maxSkills))
	years := g.between(1, maxExperienceYrs)

	numProjects := g.between(1, maxProjects)
	projects := make([]model.Project, numProjects)
	var sum float64
	for i := range projects {
		rating := float64(g.between(minProjectRating, maxProjectRating))
		sum += rating
		projects[i] = model.Project{
			ID:           fmt.Sprintf("P%04d_%s", i+1, id),
			ClientID:     g.pick(clients),
			Title:        fmt.Sprintf("Project %d for %s", i+1, id),
			Skills:       g.sample(skills, g.between(1, 4)),
			DurationDays: g.between(5, 90),
			Budget:       round2(g.uniform(100, 5000)),
			Rating:       rating,
			CompletedAt:  now.AddDate(0, 0, -g.between(1, maxProjectAgeDays)),
		}
	}

	return model.Freelancer{
		ID:                id,
		Name:              "Freelancer " + id,
		Country:           g.pick(countries),
		Skills:            skills,
		HourlyRate:        round2(g.uniform(minHourlyRate, maxHourlyRate)),
		ExperienceYears:   years,
		Experience:        levelForYears(years),
		CompletedProjects: numProjects,
		AvgRating:         math.Round(sum/float64(numProjects)*10) / 10,
		Availability:      g.pick(availability),
		PastProjects:      projects,
	}
}

func (g *Generator) job(n int, clients []string, now time.Time) model.Job {
	var budget model.Budget
	if g.rng.IntN(2) == 0 {
		budget = model.Budget{
			Type:    model.BudgetHourly,
			MinRate: round2(g.uniform(10, 50)),
			MaxRate: round2(g.uniform(50, 200)),
		}
	} else {
		budget = model.Budget{Type: model.BudgetFixed, Amount: round2(g.uniform(100, 10000))}
	}

	return model.Job{
		ID:           fmt.Sprintf("J%04d", n),
		ClientID:     g.pick(clients),
		Title:        fmt.Sprintf("Job Posting %d", n),
		Description:  fmt.Sprintf("Job posting %d requires specific skills.", n),
		Skills:       g.skills(g.between(minJobSkills, maxJobSkills)),
		Budget:       budget,
		Experience:   model.ExperienceLevel(g.between(int(model.Junior), int(model.Expert))),
		TimelineDays: g.between(minTimelineDays, maxTimelineDays),
		CreatedAt:    now.AddDate(0, 0, -g.between(0, maxJobAgeDays)),
	}
}

// skills picks up to limit tags from one to four random categories.
func (g *Generator) skills(limit int) []string {
	perm := g.rng.Perm(len(skillCatalog))
	categories := perm[:g.between(1, maxCategories)]

	seen := make(map[string]struct{})
	var out []string
	for _, ci := range categories {
		for _, s := range g.sample(skillCatalog[ci].Skills, g.between(1, maxPerCategory)) {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	if len(out) > limit {
		out = g.sample(out, limit)
	}
	return out
}

func (g *Generator) sample(from []string, n int) []string {
	if n > len(from) {
		n = len(from)
	}
	perm := g.rng.Perm(len(from))
	out := make([]string, n)
	for i := range out {
		out[i] = from[perm[i]]
	}
	return out
}

func (g *Generator) pick(from []string) string {
	return from[g.rng.IntN(len(from))]
}

// between returns an int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func levelForYears(years int) model.ExperienceLevel {
	switch {
	case years <= 2:
		return model.Junior
	case years <= 5:
		return model.Mid
	case years <= 10:
		return model.Senior
	default:
		return model.Expert
	}
}

// Save generates a corpus and writes it to dir in the loader's file layout.
func (g *Generator) Save(dir string) (recommend.Corpus, error) {
	c := g.Generate()
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return recommend.Corpus{}, fmt.Errorf("create data dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, corpus.FreelancersFile), c.Freelancers); err != nil {
		return recommend.Corpus{}, err
	}
	if err := writeJSON(filepath.Join(dir, corpus.JobsFile), c.Jobs); err != nil {
		return recommend.Corpus{}, err
	}
	return c, nil
}

// writeJSON writes v to a temp file next to path and renames it into place,
// so a watcher never sees a partially written file.
func writeJSON(path string, v any) error {
	name := filepath.Base(path)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(filePermission); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
