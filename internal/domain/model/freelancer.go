// Package model contains domain models passed between layers.
package model

import "time"

// MaxRating is the top of the rating scale.
const MaxRating = 5.0

// Project is a completed engagement in a freelancer's history.
// ClientID and Rating feed the rating matrix.
type Project struct {
	ID           string    `json:"project_id"`
	ClientID     string    `json:"client_id" validate:"required"`
	Title        string    `json:"title,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	DurationDays int       `json:"duration_days,omitempty" validate:"gte=0"`
	Budget       float64   `json:"budget,omitempty" validate:"gte=0"`
	Rating       float64   `json:"rating" validate:"gte=0,lte=5"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
}

// Freelancer is a candidate in the corpus.
type Freelancer struct {
	ID                string          `json:"freelancer_id" validate:"required"`
	Name              string          `json:"name"`
	Country           string          `json:"country,omitempty"`
	Skills            []string        `json:"skills"`
	HourlyRate        float64         `json:"hourly_rate" validate:"gt=0"`
	ExperienceYears   int             `json:"experience_years,omitempty" validate:"gte=0"`
	Experience        ExperienceLevel `json:"experience_level" validate:"required"`
	CompletedProjects int             `json:"completed_projects" validate:"gte=0"`
	AvgRating         float64         `json:"avg_rating" validate:"gte=0,lte=5"`
	Availability      string          `json:"availability,omitempty"`
	PastProjects      []Project       `json:"past_projects,omitempty" validate:"dive"`
}

// ProjectRatings returns the past-project ratings in history order.
func (f *Freelancer) ProjectRatings() []float64 {
	out := make([]float64, 0, len(f.PastProjects))
	for _, p := range f.PastProjects {
		out = append(out, p.Rating)
	}
	return out
}

// Rated reports whether the freelancer has any rating to judge by.
// A zero aggregate with no project history counts as unrated.
func (f *Freelancer) Rated() bool {
	return len(f.PastProjects) > 0 || f.AvgRating > 0
}
