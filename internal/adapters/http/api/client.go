package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/peerhire/internal/domain/collab"
)

// ClientHandler serves recommendations on behalf of a client.
type ClientHandler struct {
	deps         Recommender
	defaultLimit int
}

// NewClientHandler creates a client handler.
func NewClientHandler(deps Recommender, defaultLimit int) *ClientHandler {
	return &ClientHandler{deps: deps, defaultLimit: defaultLimit}
}

type collaborativeResponse struct {
	RequestID       string              `json:"request_id"`
	ClientID        string              `json:"client_id"`
	Recommendations []collab.Prediction `json:"recommendations"`
	TotalMatches    int                 `json:"total_matches"`
}

// HandleClientRecommendations handles GET /client/{clientID}/recommendations.
func (h *ClientHandler) HandleClientRecommendations(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	topN, err := queryInt(r, "top_n", h.defaultLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}

	res, err := h.deps.ClientRecommendations(r.Context(), clientID, topN)
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := newRecommendResponse(r, res)
	resp.ClientID = clientID
	writeJSON(w, http.StatusOK, resp)
}

// HandleCollaborative handles GET /client/{clientID}/collaborative: freelancers
// ranked by the ratings of similar clients alone.
func (h *ClientHandler) HandleCollaborative(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	topN, err := queryInt(r, "top_n", h.defaultLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}

	preds, err := h.deps.CollaborativeRecommendations(r.Context(), clientID, topN)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if preds == nil {
		preds = []collab.Prediction{}
	}
	writeJSON(w, http.StatusOK, collaborativeResponse{
		RequestID:       requestID(r),
		ClientID:        clientID,
		Recommendations: preds,
		TotalMatches:    len(preds),
	})
}
