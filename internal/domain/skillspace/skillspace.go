// Package skillspace interns skill tags into a shared vocabulary and turns
// skill sets into IDF-weighted, L2-normalized sparse vectors.
package skillspace

import (
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrEmptyCorpus is returned when there is nothing to build a vocabulary from.
var ErrEmptyCorpus = errors.New("empty skill corpus")

// Space is an immutable skill vocabulary with per-tag IDF weights.
type Space struct {
	vocab []string
	index map[string]int
	idf   []float64
	docs  int
}

// Normalize canonicalizes a skill tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Build derives the vocabulary from every tag in the corpus. Each entry of
// corpus is one entity's skill set; duplicates within a set count once.
// The IDF weight of a tag is log((N+1)/(df+1)) + 1.
func Build(corpus [][]string) (*Space, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, set := range corpus {
		for tag := range distinct(set) {
			df[tag]++
		}
	}

	vocab := make([]string, 0, len(df))
	for tag := range df {
		vocab = append(vocab, tag)
	}
	sort.Strings(vocab)

	s := &Space{
		vocab: vocab,
		index: make(map[string]int, len(vocab)),
		idf:   make([]float64, len(vocab)),
		docs:  len(corpus),
	}
	n := float64(len(corpus))
	for i, tag := range vocab {
		s.index[tag] = i
		s.idf[i] = math.Log((n+1)/(float64(df[tag])+1)) + 1
	}
	return s, nil
}

func distinct(set []string) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for _, tag := range set {
		if t := Normalize(tag); t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

// Vectorize maps a skill set onto the vocabulary. Tags the space has never
// seen are dropped. The result is unit length, or the zero vector when no
// tag is known.
func (s *Space) Vectorize(skills []string) Vector {
	comps := make([]Component, 0, len(skills))
	for tag := range distinct(skills) {
		if i, ok := s.index[tag]; ok {
			comps = append(comps, Component{Index: i, Weight: s.idf[i]})
		}
	}
	sort.Slice(comps, func(a, b int) bool { return comps[a].Index < comps[b].Index })

	v := Vector{comps: comps}
	if norm := v.Norm(); norm > 0 {
		for i := range v.comps {
			v.comps[i].Weight /= norm
		}
	}
	return v
}

// Vocabulary returns a copy of the known tags in lexical order.
func (s *Space) Vocabulary() []string {
	out := make([]string, len(s.vocab))
	copy(out, s.vocab)
	return out
}

// Contains reports whether the tag is in the vocabulary.
func (s *Space) Contains(tag string) bool {
	_, ok := s.index[Normalize(tag)]
	return ok
}

// IDF returns the weight of a tag.
func (s *Space) IDF(tag string) (float64, bool) {
	i, ok := s.index[Normalize(tag)]
	if !ok {
		return 0, false
	}
	return s.idf[i], true
}

// Len is the vocabulary size.
func (s *Space) Len() int { return len(s.vocab) }

// Documents is the number of skill sets the space was built from.
func (s *Space) Documents() int { return s.docs }
