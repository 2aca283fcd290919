package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justin362/distribution-matrix-v2/pkg/middleware"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
}

// CreateOrganization handles POST /organizations. The creator becomes
// the organization's admin and switches to it.
func (h *Handlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req createOrganizationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	org, err := h.repo.CreateOrganization(r.Context(), user, req.Name)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"organization": org,
		"role":         models.RoleAdmin,
	})
}

// ListOrganizations handles GET /organizations: every organization the
// caller belongs to, with their role.
func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	orgs, err := h.repo.ListOrganizationsForUser(r.Context(), user)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, orgs)
}

type switchOrganizationRequest struct {
	OrgID string `json:"orgId"`
}

// SwitchOrganization handles POST /organizations/switch with the target
// organization in the body.
func (h *Handlers) SwitchOrganization(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req switchOrganizationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.OrgID == "" {
		utils.WriteBadRequestResponse(w, "orgId is required")
		return
	}

	role, err := h.repo.SwitchOrganization(r.Context(), user, req.OrgID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"success":      true,
		"currentOrgId": req.OrgID,
		"role":         role,
	})
}

// ListMembers handles GET /organizations/{orgId}/members. Any member may
// look.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	if _, ok := h.requireOrgRole(w, r, orgID, models.RoleViewer); !ok {
		return
	}

	members, err := h.repo.ListMembers(r.Context(), orgID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, members)
}

type inviteMemberRequest struct {
	Email string            `json:"email"`
	Role  models.MemberRole `json:"role"`
}

// InviteMember handles POST /organizations/{orgId}/invite. Admin only.
func (h *Handlers) InviteMember(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	if _, ok := h.requireOrgRole(w, r, orgID, models.RoleAdmin); !ok {
		return
	}

	var req inviteMemberRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	invite, err := h.repo.InviteMember(r.Context(), orgID, req.Email, req.Role)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, invite)
}

type acceptInviteRequest struct {
	OrgID    string `json:"orgId"`
	InviteID string `json:"inviteId"`
}

// AcceptInvite handles POST /organizations/accept-invite with the invite
// reference in the body. The invite must be pending and addressed to the
// caller's email.
func (h *Handlers) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req acceptInviteRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.OrgID == "" || req.InviteID == "" {
		utils.WriteBadRequestResponse(w, "orgId and inviteId are required")
		return
	}

	role, err := h.repo.AcceptInvite(r.Context(), user, req.OrgID, req.InviteID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"success": true,
		"orgId":   req.OrgID,
		"role":    role,
	})
}

type updateMemberRoleRequest struct {
	Role models.MemberRole `json:"role"`
}

// UpdateMemberRole handles PUT /organizations/{orgId}/members/{userId}.
// Admin only; demoting the last admin is rejected.
func (h *Handlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	if _, ok := h.requireOrgRole(w, r, orgID, models.RoleAdmin); !ok {
		return
	}

	var req updateMemberRoleRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if err := h.repo.UpdateMemberRole(r.Context(), orgID, chi.URLParam(r, "userId"), req.Role); err != nil {
		writeRepoError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"success": true,
		"role":    req.Role,
	})
}

// RemoveMember handles DELETE /organizations/{orgId}/members/{userId}.
// Admin only, self-removal included; the last admin cannot be removed.
func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	if _, ok := h.requireOrgRole(w, r, orgID, models.RoleAdmin); !ok {
		return
	}

	if err := h.repo.RemoveMember(r.Context(), orgID, chi.URLParam(r, "userId")); err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]bool{"success": true})
}

// UserInvites handles GET /user/invites: pending invites addressed to the
// caller across all organizations.
func (h *Handlers) UserInvites(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	invites, err := h.repo.PendingInvitesForUser(r.Context(), user)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, invites)
}

// UserProfile handles GET /user/profile: the caller's membership index
// and active organization.
func (h *Handlers) UserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	profile, err := h.repo.Profile(r.Context(), user)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, profile)
}
