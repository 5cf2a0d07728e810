// Package recommend runs the hybrid recommendation pipeline against an
// immutable corpus snapshot.
package recommend

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/peerhire/internal/domain/collab"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/skillspace"
)

var (
	ErrDuplicateFreelancer = errors.New("duplicate freelancer id")
	ErrUnknownClient       = errors.New("unknown client")
)

// Corpus is the raw input a Snapshot is built from.
type Corpus struct {
	Freelancers []model.Freelancer
	Jobs        []model.Job
	Ratings     []model.Rating
}

// Snapshot is an immutable, versioned view of the corpus. Requests hold one
// snapshot for their whole pass.
type Snapshot struct {
	Version uint64
	BuiltAt time.Time

	Space   *skillspace.Space
	Ratings *collab.Matrix
	// DroppedRatings counts explicit ratings naming a freelancer outside the corpus.
	DroppedRatings int

	freelancers []model.Freelancer
	vectors     []skillspace.Vector
	byID        map[string]int
	jobs        []model.Job
	jobsByCli   map[string][]int
}

// BuildSnapshot validates the corpus and derives the skill space and rating
// matrix. Ratings embedded in past projects are merged ahead of explicit
// ratings, and explicit ratings for unknown freelancers are dropped. It fails with skillspace.ErrEmptyCorpus when there is no freelancer.
func BuildSnapshot(c Corpus) (*Snapshot, error) {
	if len(c.Freelancers) == 0 {
		return nil, fmt.Errorf("no freelancers: %w", skillspace.ErrEmptyCorpus)
	}

	freelancers := make([]model.Freelancer, len(c.Freelancers))
	copy(freelancers, c.Freelancers)
	sort.Slice(freelancers, func(i, j int) bool { return freelancers[i].ID < freelancers[j].ID })

	byID := make(map[string]int, len(freelancers))
	for i := range freelancers {
		if _, dup := byID[freelancers[i].ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFreelancer, freelancers[i].ID)
		}
		byID[freelancers[i].ID] = i
	}

	sets := make([][]string, 0, len(freelancers)+len(c.Jobs))
	for i := range freelancers {
		sets = append(sets, freelancers[i].Skills)
	}
	for i := range c.Jobs {
		sets = append(sets, c.Jobs[i].Skills)
	}
	space, err := skillspace.Build(sets)
	if err != nil {
		return nil, err
	}

	vectors := make([]skillspace.Vector, len(freelancers))
	for i := range freelancers {
		vectors[i] = space.Vectorize(freelancers[i].Skills)
	}

	jobs := make([]model.Job, len(c.Jobs))
	copy(jobs, c.Jobs)
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	jobsByCli := make(map[string][]int)
	for i := range jobs {
		if cid := jobs[i].ClientID; cid != "" {
			jobsByCli[cid] = append(jobsByCli[cid], i)
		}
	}
	for _, idx := range jobsByCli {
		sort.SliceStable(idx, func(a, b int) bool {
			return jobs[idx[a]].CreatedAt.After(jobs[idx[b]].CreatedAt)
		})
	}

	ratings, dropped := mergeRatings(freelancers, byID, c.Ratings)
	return &Snapshot{
		BuiltAt:        time.Now(),
		Space:          space,
		Ratings:        collab.NewMatrix(ratings),
		DroppedRatings: dropped,
		freelancers:    freelancers,
		vectors:        vectors,
		byID:           byID,
		jobs:           jobs,
		jobsByCli:      jobsByCli,
	}, nil
}

func mergeRatings(freelancers []model.Freelancer, byID map[string]int, explicit []model.Rating) ([]model.Rating, int) {
	out := make([]model.Rating, 0, len(explicit))
	for i := range freelancers {
		for _, p := range freelancers[i].PastProjects {
			out = append(out, model.Rating{
				ClientID:     p.ClientID,
				FreelancerID: freelancers[i].ID,
				Score:        p.Rating,
				Timestamp:    p.CompletedAt,
			})
		}
	}
	dropped := 0
	for _, r := range explicit {
		if _, ok := byID[r.FreelancerID]; !ok {
			dropped++
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}

// Freelancers returns the freelancers ordered by id. Callers must not modify them.
func (s *Snapshot) Freelancers() []model.Freelancer { return s.freelancers }

// Freelancer looks up a freelancer by id.
func (s *Snapshot) Freelancer(id string) (*model.Freelancer, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.freelancers[i], true
}

// Vector returns the precomputed skill vector of a freelancer.
func (s *Snapshot) Vector(id string) (skillspace.Vector, bool) {
	i, ok := s.byID[id]
	if !ok {
		return skillspace.Vector{}, false
	}
	return s.vectors[i], true
}

// Jobs returns the corpus jobs ordered by id.
func (s *Snapshot) Jobs() []model.Job { return s.jobs }

// LatestJob returns the client's most recently created job.
func (s *Snapshot) LatestJob(clientID string) (*model.Job, bool) {
	idx := s.jobsByCli[clientID]
	if len(idx) == 0 {
		return nil, false
	}
	return &s.jobs[idx[0]], true
}

// Stats summarizes the snapshot for operators.
func (s *Snapshot) Stats() map[string]interface{} {
	return map[string]interface{}{
		"version":     s.Version,
		"built_at":    s.BuiltAt.UTC().Format(time.RFC3339),
		"freelancers": len(s.freelancers),
		"jobs":        len(s.jobs),
		"clients":     s.Ratings.NumClients(),
		"ratings":     s.Ratings.NumRatings(),
		"vocabulary":  s.Space.Len(),
	}
}
