// Package collab implements user-based collaborative filtering over a sparse
// client x freelancer rating matrix.
package collab

import (
	"math"
	"sort"
	"time"

	"github.com/okian/peerhire/internal/domain/model"
)

// DefaultMinOverlap is the number of co-rated freelancers needed before two
// clients are considered comparable.
const DefaultMinOverlap = 2

type cell struct {
	score float64
	ts    time.Time
}

type rated struct {
	freelancer string
	score      float64
}

// Matrix is an immutable sparse rating matrix. Absent pairs are unrated,
// never zero.
type Matrix struct {
	rows       map[string]map[string]float64
	sorted     map[string][]rated
	raters     map[string][]string
	clients    []string
	ratings    int
	minOverlap int
}

// NewMatrix indexes ratings. When a (client, freelancer) pair repeats, the
// latest timestamp wins and equal timestamps resolve to the later input.
func NewMatrix(ratings []model.Rating) *Matrix {
	latest := make(map[[2]string]cell, len(ratings))
	for _, r := range ratings {
		if r.ClientID == "" || r.FreelancerID == "" {
			continue
		}
		key := [2]string{r.ClientID, r.FreelancerID}
		c := cell{score: r.Score, ts: r.Timestamp}
		if prev, ok := latest[key]; ok && prev.ts.After(c.ts) {
			continue
		}
		latest[key] = c
	}

	m := &Matrix{
		rows:       make(map[string]map[string]float64),
		sorted:     make(map[string][]rated),
		raters:     make(map[string][]string),
		ratings:    len(latest),
		minOverlap: DefaultMinOverlap,
	}
	for key, c := range latest {
		client, freelancer := key[0], key[1]
		row, ok := m.rows[client]
		if !ok {
			row = make(map[string]float64)
			m.rows[client] = row
			m.clients = append(m.clients, client)
		}
		row[freelancer] = c.score
		m.sorted[client] = append(m.sorted[client], rated{freelancer: freelancer, score: c.score})
		m.raters[freelancer] = append(m.raters[freelancer], client)
	}
	sort.Strings(m.clients)
	for _, list := range m.sorted {
		sort.Slice(list, func(i, j int) bool { return list[i].freelancer < list[j].freelancer })
	}
	for _, list := range m.raters {
		sort.Strings(list)
	}
	return m
}

// Rating returns the client's rating of the freelancer, if any.
func (m *Matrix) Rating(client, freelancer string) (float64, bool) {
	v, ok := m.rows[client][freelancer]
	return v, ok
}

// HasClient reports whether the client has rated anyone.
func (m *Matrix) HasClient(client string) bool {
	_, ok := m.rows[client]
	return ok
}

// Row returns a copy of the client's ratings keyed by freelancer.
func (m *Matrix) Row(client string) map[string]float64 {
	row := m.rows[client]
	out := make(map[string]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// Raters returns the clients that rated the freelancer, sorted.
func (m *Matrix) Raters(freelancer string) []string {
	return m.raters[freelancer]
}

// Clients returns every client with at least one rating, sorted.
func (m *Matrix) Clients() []string {
	out := make([]string, len(m.clients))
	copy(out, m.clients)
	return out
}

// NumClients is the number of rows.
func (m *Matrix) NumClients() int { return len(m.clients) }

// NumRatings is the number of distinct (client, freelancer) cells.
func (m *Matrix) NumRatings() int { return m.ratings }

// Similarity is the cosine of the two clients' ratings restricted to the
// freelancers both have rated. Fewer than two co-rated freelancers gives 0.
func (m *Matrix) Similarity(a, b string) float64 {
	ra, rb := m.sorted[a], m.sorted[b]

	var dot, na, nb float64
	overlap := 0
	for i, j := 0, 0; i < len(ra) && j < len(rb); {
		switch x, y := ra[i], rb[j]; {
		case x.freelancer == y.freelancer:
			overlap++
			dot += x.score * y.score
			na += x.score * x.score
			nb += y.score * y.score
			i++
			j++
		case x.freelancer < y.freelancer:
			i++
		default:
			j++
		}
	}
	if overlap < m.minOverlap || na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim))
}
