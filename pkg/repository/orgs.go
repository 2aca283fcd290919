package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

// Per-organization bookkeeping keys (entity keys live in scope.go).
const (
	keyOrgInfo    = "info"
	keyOrgMembers = "members"
	keyOrgInvites = "invites"
)

// CreateOrganization writes the organization record, seeds its empty
// entity namespaces, adds the creator as the sole admin member and points
// the creator's profile at the new organization.
//
// The member list and the profile index are two separate writes with no
// transaction across them; a crash in between leaves them divergent
// (known limitation).
func (r *Repository) CreateOrganization(ctx context.Context, user *models.User, name string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrValidation)
	}

	org := models.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: nowISO(),
		CreatedBy: user.ID,
	}
	scope := OrgScope(org.ID)

	if err := kv.SetJSON(ctx, r.store, scope.Key(keyOrgInfo), org); err != nil {
		return nil, err
	}

	members := []models.OrganizationMember{{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     models.RoleAdmin,
		JoinedAt: org.CreatedAt,
	}}
	if err := kv.SetJSON(ctx, r.store, scope.Key(keyOrgMembers), members); err != nil {
		return nil, err
	}

	empty := json.RawMessage("[]")
	for _, key := range []string{keyClients, keyRetailers, keyDistributions, keyAnalyticsHistory} {
		if err := r.store.Set(ctx, scope.Key(key), empty); err != nil {
			return nil, err
		}
	}

	err := r.updateProfile(ctx, user.ID, user, func(p *models.UserProfile) error {
		p.Organizations = append(p.Organizations, models.ProfileMembership{OrgID: org.ID, Role: models.RoleAdmin})
		p.CurrentOrgID = &org.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &org, nil
}

// GetOrganization loads one organization record.
func (r *Repository) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	org := &models.Organization{}
	err := kv.GetJSON(ctx, r.store, OrgScope(orgID).Key(keyOrgInfo), org)
	if err == kv.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganizationsForUser resolves the profile's membership index into
// organization records. Memberships whose organization record is missing
// are skipped silently.
func (r *Repository) ListOrganizationsForUser(ctx context.Context, user *models.User) ([]models.OrganizationWithRole, error) {
	profile, err := r.Profile(ctx, user)
	if err != nil {
		return nil, err
	}

	orgs := []models.OrganizationWithRole{}
	for _, m := range profile.Organizations {
		org, err := r.GetOrganization(ctx, m.OrgID)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, models.OrganizationWithRole{Organization: *org, Role: m.Role})
	}
	return orgs, nil
}

// SwitchOrganization sets the user's active organization. The user must
// already be a member.
func (r *Repository) SwitchOrganization(ctx context.Context, user *models.User, orgID string) (models.MemberRole, error) {
	var role models.MemberRole

	err := r.updateProfile(ctx, user.ID, user, func(p *models.UserProfile) error {
		got, ok := membershipFor(p, orgID)
		if !ok {
			return ErrNotMember
		}
		role = got
		p.CurrentOrgID = &orgID
		return nil
	})
	if err != nil {
		return "", err
	}
	return role, nil
}

// ListMembers returns the organization's member list.
func (r *Repository) ListMembers(ctx context.Context, orgID string) ([]models.OrganizationMember, error) {
	members := []models.OrganizationMember{}
	if err := r.readList(ctx, OrgScope(orgID).Key(keyOrgMembers), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// InviteMember appends a pending invite. The email is stored lower-cased
// so acceptance matching is case-insensitive. No notification is sent.
func (r *Repository) InviteMember(ctx context.Context, orgID, email string, role models.MemberRole) (*models.OrganizationInvite, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", ErrValidation)
	}

	invite := models.OrganizationInvite{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		Status:    models.InvitePending,
		CreatedAt: nowISO(),
	}

	err := r.updateList(ctx, OrgScope(orgID).Key(keyOrgInvites), func(current json.RawMessage) (interface{}, error) {
		invites := []models.OrganizationInvite{}
		if current != nil {
			if err := json.Unmarshal(current, &invites); err != nil {
				return nil, err
			}
		}
		return append(invites, invite), nil
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite consumes a pending invite addressed to the accepting
// user's email (case-insensitive), adds the user to the member list and
// updates the user's profile. CurrentOrgID is only claimed when unset.
func (r *Repository) AcceptInvite(ctx context.Context, user *models.User, orgID, inviteID string) (models.MemberRole, error) {
	var role models.MemberRole

	err := r.updateList(ctx, OrgScope(orgID).Key(keyOrgInvites), func(current json.RawMessage) (interface{}, error) {
		invites := []models.OrganizationInvite{}
		if current != nil {
			if err := json.Unmarshal(current, &invites); err != nil {
				return nil, err
			}
		}

		for i := range invites {
			if invites[i].ID != inviteID {
				continue
			}
			if invites[i].Status != models.InvitePending {
				return nil, ErrInviteInvalid
			}
			if invites[i].Email != strings.ToLower(user.Email) {
				return nil, ErrInviteInvalid
			}
			invites[i].Status = models.InviteAccepted
			role = invites[i].Role
			return invites, nil
		}
		return nil, ErrInviteInvalid
	})
	if err != nil {
		return "", err
	}

	err = r.updateList(ctx, OrgScope(orgID).Key(keyOrgMembers), func(current json.RawMessage) (interface{}, error) {
		members := []models.OrganizationMember{}
		if current != nil {
			if err := json.Unmarshal(current, &members); err != nil {
				return nil, err
			}
		}
		return append(members, models.OrganizationMember{
			UserID:   user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Role:     role,
			JoinedAt: nowISO(),
		}), nil
	})
	if err != nil {
		return "", err
	}

	err = r.updateProfile(ctx, user.ID, user, func(p *models.UserProfile) error {
		p.Organizations = append(p.Organizations, models.ProfileMembership{OrgID: orgID, Role: role})
		if p.CurrentOrgID == nil {
			p.CurrentOrgID = &orgID
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return role, nil
}

// UpdateMemberRole changes a member's role in the member list and in the
// target's own profile index (dual write). Demoting the organization's
// last admin is rejected.
func (r *Repository) UpdateMemberRole(ctx context.Context, orgID, targetUserID string, newRole models.MemberRole) error {
	if !newRole.Valid() {
		return fmt.Errorf("%w: invalid role", ErrValidation)
	}

	err := r.updateList(ctx, OrgScope(orgID).Key(keyOrgMembers), func(current json.RawMessage) (interface{}, error) {
		members := []models.OrganizationMember{}
		if current != nil {
			if err := json.Unmarshal(current, &members); err != nil {
				return nil, err
			}
		}

		idx := -1
		adminCount := 0
		for i := range members {
			if members[i].Role == models.RoleAdmin {
				adminCount++
			}
			if members[i].UserID == targetUserID {
				idx = i
			}
		}
		if idx == -1 {
			return nil, ErrNotFound
		}
		if members[idx].Role == models.RoleAdmin && newRole != models.RoleAdmin && adminCount <= 1 {
			return nil, ErrLastAdmin
		}

		members[idx].Role = newRole
		return members, nil
	})
	if err != nil {
		return err
	}

	// Dual write into the target's profile; a missing profile just means
	// the target never fetched theirs yet.
	err = r.updateProfile(ctx, targetUserID, nil, func(p *models.UserProfile) error {
		for i := range p.Organizations {
			if p.Organizations[i].OrgID == orgID {
				p.Organizations[i].Role = newRole
			}
		}
		return nil
	})
	if err != nil && err != ErrNotFound {
		return err
	}
	return nil
}

// RemoveMember drops a member from the organization and from the
// target's profile index. Removing the last admin is rejected; when the
// removed organization was the target's active one, the first remaining
// membership (or none) takes over.
func (r *Repository) RemoveMember(ctx context.Context, orgID, targetUserID string) error {
	err := r.updateList(ctx, OrgScope(orgID).Key(keyOrgMembers), func(current json.RawMessage) (interface{}, error) {
		members := []models.OrganizationMember{}
		if current != nil {
			if err := json.Unmarshal(current, &members); err != nil {
				return nil, err
			}
		}

		idx := -1
		adminCount := 0
		for i := range members {
			if members[i].Role == models.RoleAdmin {
				adminCount++
			}
			if members[i].UserID == targetUserID {
				idx = i
			}
		}
		if idx == -1 {
			return nil, ErrNotFound
		}
		if members[idx].Role == models.RoleAdmin && adminCount <= 1 {
			return nil, ErrLastAdmin
		}

		return append(members[:idx], members[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	err = r.updateProfile(ctx, targetUserID, nil, func(p *models.UserProfile) error {
		filtered := p.Organizations[:0]
		for _, m := range p.Organizations {
			if m.OrgID != orgID {
				filtered = append(filtered, m)
			}
		}
		p.Organizations = filtered

		if p.CurrentOrgID != nil && *p.CurrentOrgID == orgID {
			if len(p.Organizations) > 0 {
				next := p.Organizations[0].OrgID
				p.CurrentOrgID = &next
			} else {
				p.CurrentOrgID = nil
			}
		}
		return nil
	})
	if err != nil && err != ErrNotFound {
		return err
	}
	return nil
}

// PendingInvitesForUser scans every organization's invite list for
// pending invites addressed to the user, decorated with the organization
// name for display.
func (r *Repository) PendingInvitesForUser(ctx context.Context, user *models.User) ([]models.PendingInvite, error) {
	keys, err := r.store.Keys(ctx, "org:")
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(user.Email)
	pending := []models.PendingInvite{}
	for _, key := range keys {
		if !strings.HasSuffix(key, ":"+keyOrgInvites) {
			continue
		}

		invites := []models.OrganizationInvite{}
		if err := r.readList(ctx, key, &invites); err != nil {
			return nil, err
		}
		for _, inv := range invites {
			if inv.Email != email || inv.Status != models.InvitePending {
				continue
			}

			name := "Unknown"
			if org, err := r.GetOrganization(ctx, inv.OrgID); err == nil {
				name = org.Name
			}
			pending = append(pending, models.PendingInvite{OrganizationInvite: inv, OrganizationName: name})
		}
	}
	return pending, nil
}
