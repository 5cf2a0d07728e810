package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/internal/domain/types"
	"github.com/okian/peerhire/internal/validation"
)

const maxBodyBytes = 1 << 20

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return v, nil
}

func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadRequest, name)
	}
	return v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrBadRequest, name)
	}
	return v, nil
}

func validationFields(err error) []validation.FieldError {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Fields()
	}
	return nil
}

// recommendationView is one entry with the freelancer details clients show.
type recommendationView struct {
	types.Entry
	MatchScore        float64           `json:"match_score"`
	Name              string            `json:"name,omitempty"`
	Skills            []string          `json:"skills"`
	HourlyRate        float64           `json:"hourly_rate"`
	ExperienceLevel   string            `json:"experience_level"`
	AvgRating         float64           `json:"avg_rating"`
	CompletedProjects int               `json:"completed_projects"`
	Country           string            `json:"country,omitempty"`
	Breakdown         scoring.Breakdown `json:"breakdown"`
}

// MatchScore renders a blended score as a percentage with two decimals.
func MatchScore(blended float64) float64 {
	return math.Round(blended*100*100) / 100
}

func viewMatches(matches []recommend.Match) []recommendationView {
	out := make([]recommendationView, len(matches))
	for i, m := range matches {
		v := recommendationView{
			Entry:      m.Entry,
			MatchScore: MatchScore(m.BlendedScore),
			Breakdown:  m.Breakdown,
		}
		if f := m.Freelancer; f != nil {
			v.Name = f.Name
			v.Skills = f.Skills
			v.HourlyRate = f.HourlyRate
			v.ExperienceLevel = f.Experience.String()
			v.AvgRating = f.AvgRating
			v.CompletedProjects = f.CompletedProjects
			v.Country = f.Country
		}
		out[i] = v
	}
	return out
}

// requestID returns the id assigned by the request-id middleware.
func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
