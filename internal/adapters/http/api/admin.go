package api

import (
	"net/http"

	"github.com/okian/peerhire/pkg/logger"
)

// AdminHandler exposes operator actions.
type AdminHandler struct {
	deps   Reloader
	logger logger.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(deps Reloader, l logger.Logger) *AdminHandler {
	return &AdminHandler{deps: deps, logger: l}
}

type reloadResponse struct {
	Status string `json:"status"`
}

// HandleReload handles POST /admin/reload. The reload runs synchronously; on
// failure the previous snapshot keeps serving and 500 is returned.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Reload(r.Context(), "admin"); err != nil {
		h.logger.Warn(r.Context(), "admin reload failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, codeReloadFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded"})
}
