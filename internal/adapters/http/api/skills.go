package api

import "net/http"

// SkillsHandler lists the skill vocabulary.
type SkillsHandler struct {
	deps Recommender
}

// NewSkillsHandler creates a skills handler.
func NewSkillsHandler(deps Recommender) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type skillsResponse struct {
	Skills []string `json:"skills"`
}

// HandleSupportedSkills handles GET /supported-skills.
func (h *SkillsHandler) HandleSupportedSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.deps.SupportedSkills(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skillsResponse{Skills: skills})
}
