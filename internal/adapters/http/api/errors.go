package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/peerhire/internal/adapters/repository"
	"github.com/okian/peerhire/internal/domain/hybrid"
	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/domain/scoring"
	"github.com/okian/peerhire/internal/validation"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// Error codes returned in the body of failed responses.
const (
	codeBadRequest   = "bad_request"
	codeValidation   = "validation_error"
	codeNotFound     = "not_found"
	codeUnavailable  = "no_snapshot"
	codeReloadFailed = "reload_failed"
	codeInternal     = "internal_error"
	codeTimeout      = "timeout"
)

type errorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// classify maps an error to a status and code. Client-input faults are 400,
// an unknown client 404, a missing snapshot 503.
func classify(err error) (int, string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, hybrid.ErrInvalidLimit),
		errors.Is(err, hybrid.ErrInvalidWeight),
		errors.Is(err, scoring.ErrInvalidWeights),
		errors.Is(err, model.ErrInvalidBudget),
		errors.Is(err, model.ErrUnknownExperience):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, recommend.ErrUnknownClient):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, repository.ErrNoSnapshot):
		return http.StatusServiceUnavailable, codeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
