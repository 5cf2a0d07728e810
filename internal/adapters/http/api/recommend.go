package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/peerhire/internal/domain/model"
	"github.com/okian/peerhire/internal/domain/recommend"
	"github.com/okian/peerhire/internal/validation"
)

// RecommendHandler handles POST /recommend.
type RecommendHandler struct {
	deps         Recommender
	defaultLimit int
	cfWeight     float64
}

// NewRecommendHandler creates a recommend handler.
func NewRecommendHandler(deps Recommender, defaultLimit int, cfWeight float64) *RecommendHandler {
	return &RecommendHandler{deps: deps, defaultLimit: defaultLimit, cfWeight: cfWeight}
}

type recommendResponse struct {
	RequestID       string               `json:"request_id"`
	ClientID        string               `json:"client_id,omitempty"`
	SnapshotVersion uint64               `json:"snapshot_version"`
	Job             *model.Job           `json:"job"`
	Recommendations []recommendationView `json:"recommendations"`
	TotalMatches    int                  `json:"total_matches"`
	Candidates      int                  `json:"candidates_scored"`
	Collaborative   int                  `json:"collaborative_scored"`
}

// HandleRecommend decodes a job, applies the query parameters and returns
// the ranked freelancers. Parameters are validated before any scoring.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(w, r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	res, err := h.deps.Recommend(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRecommendResponse(r, res))
}

func (h *RecommendHandler) parse(w http.ResponseWriter, r *http.Request) (recommend.Request, error) {
	limit, err := queryInt(r, "limit", h.defaultLimit)
	if err != nil {
		return recommend.Request{}, err
	}
	useCF, err := queryBool(r, "use_collaborative")
	if err != nil {
		return recommend.Request{}, err
	}
	cfWeight, err := queryFloat(r, "cf_weight", h.cfWeight)
	if err != nil {
		return recommend.Request{}, err
	}

	var job model.Job
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&job); err != nil {
		return recommend.Request{}, fmt.Errorf("%w: decode job: %w", ErrBadRequest, err)
	}
	if err := validation.ValidateStruct(&job); err != nil {
		return recommend.Request{}, err
	}
	if err := job.Budget.Validate(); err != nil {
		return recommend.Request{}, err
	}

	return recommend.Request{
		Job:              &job,
		Limit:            limit,
		ClientID:         r.URL.Query().Get("client_id"),
		UseCollaborative: useCF,
		CFWeight:         cfWeight,
	}, nil
}

func newRecommendResponse(r *http.Request, res *recommend.Result) recommendResponse {
	return recommendResponse{
		RequestID:       requestID(r),
		SnapshotVersion: res.SnapshotVersion,
		Job:             res.Job,
		Recommendations: viewMatches(res.Matches),
		TotalMatches:    len(res.Matches),
		Candidates:      res.Candidates,
		Collaborative:   res.Collaborative,
	}
}
