package handlers

import (
	"net/http"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// ClearAllData handles POST /clear-all-data: wipe the scope's clients,
// retailers and distributions. Admin only inside organizations; the
// activity log and analytics history survive.
func (h *Handlers) ClearAllData(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleAdmin)
	if !ok {
		return
	}

	if err := h.repo.ClearScopeData(r.Context(), scope); err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]bool{"success": true})
}
