package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownExperience is returned when an experience level name is not recognised.
var ErrUnknownExperience = errors.New("unknown experience level")

// ExperienceLevel is an ordinal seniority level. The zero value is unset.
type ExperienceLevel int

const (
	ExperienceUnset ExperienceLevel = iota
	Junior
	Mid
	Senior
	Expert
)

var experienceNames = map[ExperienceLevel]string{
	Junior: "junior",
	Mid:    "mid",
	Senior: "senior",
	Expert: "expert",
}

// ParseExperience accepts the canonical names and the marketplace aliases
// entry, intermediate and advanced. Matching is case-insensitive.
func ParseExperience(s string) (ExperienceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "junior", "entry":
		return Junior, nil
	case "mid", "intermediate":
		return Mid, nil
	case "senior", "advanced":
		return Senior, nil
	case "expert":
		return Expert, nil
	}
	return ExperienceUnset, fmt.Errorf("%w: %q", ErrUnknownExperience, s)
}

// Valid reports whether l is one of the four defined levels.
func (l ExperienceLevel) Valid() bool {
	return l >= Junior && l <= Expert
}

func (l ExperienceLevel) String() string {
	if name, ok := experienceNames[l]; ok {
		return name
	}
	return "unset"
}

func (l ExperienceLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownExperience, int(l))
	}
	return []byte(l.String()), nil
}

func (l *ExperienceLevel) UnmarshalText(b []byte) error {
	v, err := ParseExperience(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
