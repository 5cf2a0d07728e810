package repository

import (
	"errors"
	"time"
)

var (
	ErrNoSnapshot   = errors.New("no corpus snapshot loaded")
	ErrReloadFailed = errors.New("corpus reload failed")
)

// Failure records a reload that did not publish.
type Failure struct {
	At            time.Time `json:"at"`
	Err           string    `json:"error"`
	ActiveVersion uint64    `json:"active_version"`
}
