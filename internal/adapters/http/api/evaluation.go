package api

import "net/http"

// EvaluationHandler runs the batch evaluation on demand.
type EvaluationHandler struct {
	deps         Evaluator
	defaultLimit int
}

// NewEvaluationHandler creates an evaluation handler.
func NewEvaluationHandler(deps Evaluator, defaultLimit int) *EvaluationHandler {
	return &EvaluationHandler{deps: deps, defaultLimit: defaultLimit}
}

// HandleEvaluation handles GET /evaluation?top_n=. Per-job reports are
// included only with ?detail=true.
func (h *EvaluationHandler) HandleEvaluation(w http.ResponseWriter, r *http.Request) {
	topN, err := queryInt(r, "top_n", h.defaultLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	detail, err := queryBool(r, "detail")
	if err != nil {
		writeFailure(w, err)
		return
	}

	report, err := h.deps.Evaluate(r.Context(), topN)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if !detail {
		report.Reports = nil
	}
	writeJSON(w, http.StatusOK, report)
}
