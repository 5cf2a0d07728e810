package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBudget marks a budget whose bounds are inconsistent.
var ErrInvalidBudget = errors.New("invalid budget")

// BudgetType distinguishes hourly ranges from fixed-price jobs.
type BudgetType string

const (
	BudgetHourly BudgetType = "hourly"
	BudgetFixed  BudgetType = "fixed"
)

// Budget is either an hourly rate range or a fixed amount.
type Budget struct {
	Type    BudgetType `json:"type" validate:"omitempty,oneof=hourly fixed"`
	MinRate float64    `json:"min_rate,omitempty" validate:"gte=0"`
	MaxRate float64    `json:"max_rate,omitempty" validate:"gte=0"`
	Amount  float64    `json:"amount,omitempty" validate:"gte=0"`
}

// HourlyRange returns the rate range and whether the budget has one.
// An empty type is treated as hourly.
func (b Budget) HourlyRange() (lo, hi float64, ok bool) {
	if b.Type == BudgetFixed {
		return 0, 0, false
	}
	return b.MinRate, b.MaxRate, true
}

// Validate checks min <= max for hourly budgets.
func (b Budget) Validate() error {
	if lo, hi, ok := b.HourlyRange(); ok && lo > hi {
		return fmt.Errorf("%w: min_rate %v exceeds max_rate %v", ErrInvalidBudget, lo, hi)
	}
	return nil
}

// Weights are the content-score component weights.
type Weights struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Budget     float64 `json:"budget"`
	Rating     float64 `json:"rating"`
}

// Sum returns the total of all components.
func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.Budget + w.Rating
}

// Job is a client posting to be matched against freelancers.
type Job struct {
	ID           string          `json:"job_id,omitempty"`
	ClientID     string          `json:"client_id,omitempty"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	Skills       []string        `json:"skills_required" validate:"required,min=1,dive,required"`
	Budget       Budget          `json:"budget"`
	Experience   ExperienceLevel `json:"experience_level" validate:"required"`
	TimelineDays int             `json:"timeline_days,omitempty" validate:"gte=0"`
	CreatedAt    time.Time       `json:"created_at,omitempty"`
	Weights      *Weights        `json:"weights,omitempty"`
}

// Rating is one client's rating of one freelancer at a point in time.
type Rating struct {
	ClientID     string    `json:"client_id" validate:"required"`
	FreelancerID string    `json:"freelancer_id" validate:"required"`
	Score        float64   `json:"score" validate:"gte=0,lte=5"`
	Timestamp    time.Time `json:"timestamp"`
}
