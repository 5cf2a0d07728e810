package collab

import (
	"math"
	"sort"

	"github.com/okian/peerhire/internal/domain/model"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMaxNeighbours keeps only the k most similar clients per prediction.
// Zero keeps every client with positive similarity.
func WithMaxNeighbours(k int) Option {
	return func(s *Scorer) {
		if k >= 0 {
			s.maxNeighbours = k
		}
	}
}

// Neighbour is a client similar to the target client.
type Neighbour struct {
	ClientID   string  `json:"client_id"`
	Similarity float64 `json:"similarity"`
}

// Prediction is a predicted relevance for a freelancer the client has not rated.
type Prediction struct {
	FreelancerID string  `json:"freelancer_id"`
	Score        float64 `json:"score"`
}

// Scorer predicts a client's relevance score for freelancers from the
// ratings of similar clients.
type Scorer struct {
	matrix        *Matrix
	maxNeighbours int
}

// NewScorer creates a collaborative scorer over an immutable matrix.
func NewScorer(m *Matrix, opts ...Option) *Scorer {
	s := &Scorer{matrix: m}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matrix returns the underlying rating matrix.
func (s *Scorer) Matrix() *Matrix { return s.matrix }

// Neighbours lists other clients with positive similarity to client, most
// similar first, ties by client id.
func (s *Scorer) Neighbours(client string) []Neighbour {
	if !s.matrix.HasClient(client) {
		return nil
	}
	var out []Neighbour
	for _, other := range s.matrix.clients {
		if other == client {
			continue
		}
		if sim := s.matrix.Similarity(client, other); sim > 0 {
			out = append(out, Neighbour{ClientID: other, Similarity: sim})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].ClientID < out[j].ClientID
	})
	if s.maxNeighbours > 0 && len(out) > s.maxNeighbours {
		out = out[:s.maxNeighbours]
	}
	return out
}

// ForClient precomputes the client's neighbourhood so that predictions for
// many freelancers share one similarity pass.
func (s *Scorer) ForClient(client string) *ClientModel {
	cm := &ClientModel{client: client, matrix: s.matrix, sims: make(map[string]float64)}
	for _, n := range s.Neighbours(client) {
		cm.sims[n.ClientID] = n.Similarity
	}
	return cm
}

// Predict is ForClient(client).Predict(freelancer).
func (s *Scorer) Predict(client, freelancer string) (float64, bool) {
	return s.ForClient(client).Predict(freelancer)
}

// RecommendForClient ranks freelancers the client has not rated by predicted
// score, highest first, ties by freelancer id.
func (s *Scorer) RecommendForClient(client string, limit int) []Prediction {
	cm := s.ForClient(client)
	if len(cm.sims) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Prediction
	for other := range cm.sims {
		for _, r := range s.matrix.sorted[other] {
			if _, done := seen[r.freelancer]; done {
				continue
			}
			seen[r.freelancer] = struct{}{}
			if _, own := s.matrix.Rating(client, r.freelancer); own {
				continue
			}
			if v, ok := cm.Predict(r.freelancer); ok && v > 0 {
				out = append(out, Prediction{FreelancerID: r.freelancer, Score: v})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].FreelancerID < out[j].FreelancerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ClientModel holds one client's neighbourhood.
type ClientModel struct {
	client string
	matrix *Matrix
	sims   map[string]float64
}

// NeighbourCount is the number of clients contributing to predictions.
func (cm *ClientModel) NeighbourCount() int { return len(cm.sims) }

// Predict returns the similarity-weighted mean of neighbours' ratings of the
// freelancer, mapped onto [0,1]. ok is false when no neighbour rated the
// freelancer, in which case callers fall back to content scoring.
func (cm *ClientModel) Predict(freelancer string) (float64, bool) {
	if len(cm.sims) == 0 {
		return 0, false
	}
	var num, den float64
	for _, other := range cm.matrix.Raters(freelancer) {
		if other == cm.client {
			continue
		}
		sim, ok := cm.sims[other]
		if !ok || sim <= 0 {
			continue
		}
		r, _ := cm.matrix.Rating(other, freelancer)
		num += sim * r
		den += sim
	}
	if den == 0 {
		return 0, false
	}
	return math.Max(0, math.Min(1, num/den/model.MaxRating)), true
}
