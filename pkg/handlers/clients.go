package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/repository"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// ListClients handles GET /clients.
func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForRead(w, r)
	if !ok {
		return
	}

	clients, err := h.repo.ListClients(r.Context(), scope)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, clients)
}

type createClientRequest struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	StatusDate *string `json:"statusDate"`
}

// CreateClient handles POST /clients.
func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	var req createClientRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	client, err := h.repo.CreateClient(r.Context(), scope, req.Name, req.Status, req.StatusDate)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, client)
}

// updateClientRequest keeps raw fields so an absent key, an explicit
// null, and a value stay distinguishable.
type updateClientRequest struct {
	Name       *string         `json:"name"`
	Status     *string         `json:"status"`
	StatusDate json.RawMessage `json:"statusDate"`
}

// UpdateClient handles PUT /clients/{id}.
func (h *Handlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	var req updateClientRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	patch := repository.ClientPatch{
		Name:   req.Name,
		Status: req.Status,
	}
	if req.StatusDate != nil {
		patch.StatusDateSet = true
		if string(req.StatusDate) != "null" {
			var date string
			if err := json.Unmarshal(req.StatusDate, &date); err != nil {
				utils.WriteBadRequestResponse(w, "statusDate must be a string or null")
				return
			}
			patch.StatusDate = &date
		}
	}

	client, err := h.repo.UpdateClient(r.Context(), scope, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, client)
}

// DeleteClient handles DELETE /clients/{id}; distributions referencing
// the client are removed with it.
func (h *Handlers) DeleteClient(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	if err := h.repo.DeleteClient(r.Context(), scope, chi.URLParam(r, "id")); err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]bool{"success": true})
}
