package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// ListDistributions handles GET /distributions.
func (h *Handlers) ListDistributions(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForRead(w, r)
	if !ok {
		return
	}

	distributions, err := h.repo.ListDistributions(r.Context(), scope)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, distributions)
}

type upsertDistributionRequest struct {
	ClientID   string `json:"clientId"`
	RetailerID string `json:"retailerId"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// UpsertDistribution handles POST /distributions: one record per
// (clientId, retailerId) pair, replaced on repeat. A fresh analytics
// snapshot is taken opportunistically after each write so the history
// tracks the matrix without a scheduler.
func (h *Handlers) UpsertDistribution(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	var req upsertDistributionRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	record, err := h.repo.UpsertDistribution(r.Context(), scope, req.ClientID, req.RetailerID, req.Status, req.Notes)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if _, err := h.repo.Snapshot(r.Context(), scope, time.Now().UTC()); err != nil {
		fmt.Printf("[warn] snapshot after distribution write failed: %v\n", err)
	}

	utils.WriteSuccessResponse(w, record)
}
