package handlers

import (
	"net/http"
	"time"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// ListActivity handles GET /activity: the bounded newest-first feed.
func (h *Handlers) ListActivity(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForRead(w, r)
	if !ok {
		return
	}

	log, err := h.repo.ListActivity(r.Context(), scope)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, log)
}

// Analytics handles GET /analytics: live metrics plus recent history.
func (h *Handlers) Analytics(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForRead(w, r)
	if !ok {
		return
	}

	report, err := h.repo.Analytics(r.Context(), scope)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, report)
}

// Snapshot handles POST /analytics/snapshot: upsert today's history
// entry on demand (the frontend fires this on load). It writes to the
// analytics history, so viewers are excluded like any other mutation.
func (h *Handlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	snapshot, err := h.repo.Snapshot(r.Context(), scope, time.Now().UTC())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"success":  true,
		"snapshot": snapshot,
	})
}
