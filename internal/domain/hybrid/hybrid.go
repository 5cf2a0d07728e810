// Package hybrid blends content and collaborative scores and ranks the result.
package hybrid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/okian/peerhire/internal/domain/types"
)

// DefaultCFWeight is the collaborative share of the blended score.
const DefaultCFWeight = 0.30

var (
	ErrInvalidWeight = errors.New("collaborative weight must be within [0,1]")
	ErrInvalidLimit  = errors.New("limit must be at least 1")
)

// ValidateWeight rejects weights outside [0,1] and NaN.
func ValidateWeight(cfWeight float64) error {
	if math.IsNaN(cfWeight) || cfWeight < 0 || cfWeight > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidWeight, cfWeight)
	}
	return nil
}

// ValidateLimit rejects limits below 1.
func ValidateLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}

// Blend returns content unchanged when there is no collaborative signal, and
// content*(1-w) + collaborative*w otherwise.
func Blend(content float64, collaborative *float64, cfWeight float64) (float64, error) {
	if err := ValidateWeight(cfWeight); err != nil {
		return 0, err
	}
	if collaborative == nil {
		return content, nil
	}
	return content*(1-cfWeight) + *collaborative*cfWeight, nil
}

// Less orders entries by blended score descending, then freelancer id ascending.
func Less(a, b types.Entry) bool {
	if a.BlendedScore != b.BlendedScore {
		return a.BlendedScore > b.BlendedScore
	}
	return a.FreelancerID < b.FreelancerID
}

// Rank sorts a copy of entries, keeps the top limit and numbers them from 1.
func Rank(entries []types.Entry, limit int) ([]types.Entry, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}
