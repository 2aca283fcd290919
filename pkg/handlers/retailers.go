package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/repository"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// ListRetailers handles GET /retailers.
func (h *Handlers) ListRetailers(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForRead(w, r)
	if !ok {
		return
	}

	retailers, err := h.repo.ListRetailers(r.Context(), scope)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, retailers)
}

type createRetailerRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// CreateRetailer handles POST /retailers.
func (h *Handlers) CreateRetailer(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	var req createRetailerRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	retailer, err := h.repo.CreateRetailer(r.Context(), scope, req.Name, req.Category, req.Type)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, retailer)
}

// updateRetailerRequest uses raw fields for everything that must
// distinguish "absent" from "explicitly cleared".
type updateRetailerRequest struct {
	Name             *string         `json:"name"`
	Category         *string         `json:"category"`
	Type             *string         `json:"type"`
	Contacts         json.RawMessage `json:"contacts"`
	LineReviewTiming json.RawMessage `json:"lineReviewTiming"`
	ResetDates       json.RawMessage `json:"resetDates"`
	Notes            json.RawMessage `json:"notes"`
}

// UpdateRetailer handles PUT /retailers/{id}.
func (h *Handlers) UpdateRetailer(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	var req updateRetailerRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	patch := repository.RetailerPatch{
		Name:     req.Name,
		Category: req.Category,
		Type:     req.Type,
	}

	if req.Contacts != nil {
		patch.ContactsSet = true
		if string(req.Contacts) != "null" {
			contacts := []models.RetailerContact{}
			if err := json.Unmarshal(req.Contacts, &contacts); err != nil {
				utils.WriteBadRequestResponse(w, "contacts must be an array")
				return
			}
			patch.Contacts = contacts
		}
	}

	var err error
	if patch.LineReviewTiming, patch.LineReviewTimingSet, err = optionalString(req.LineReviewTiming); err != nil {
		utils.WriteBadRequestResponse(w, "lineReviewTiming must be a string or null")
		return
	}
	if patch.ResetDates, patch.ResetDatesSet, err = optionalString(req.ResetDates); err != nil {
		utils.WriteBadRequestResponse(w, "resetDates must be a string or null")
		return
	}
	if patch.Notes, patch.NotesSet, err = optionalString(req.Notes); err != nil {
		utils.WriteBadRequestResponse(w, "notes must be a string or null")
		return
	}

	retailer, err := h.repo.UpdateRetailer(r.Context(), scope, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, retailer)
}

// DeleteRetailer handles DELETE /retailers/{id}; distributions
// referencing the retailer are removed with it.
func (h *Handlers) DeleteRetailer(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeForWrite(w, r, models.RoleEditor)
	if !ok {
		return
	}

	if err := h.repo.DeleteRetailer(r.Context(), scope, chi.URLParam(r, "id")); err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]bool{"success": true})
}

// optionalString decodes a tri-state string field: (nil,false) when the
// key was absent, (nil,true) for an explicit null, (&s,true) for a value.
func optionalString(raw json.RawMessage) (*string, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}
