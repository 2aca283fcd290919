package models

// Organization is a tenant boundary. It owns its own clients, retailers,
// distributions, invites and analytics history in the KV store.
type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
}

// OrganizationWithRole decorates an organization with the caller's role,
// as returned by GET /organizations.
type OrganizationWithRole struct {
	Organization
	Role MemberRole `json:"role"`
}

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleEditor MemberRole = "editor"
	RoleViewer MemberRole = "viewer"
)

var roleRank = map[MemberRole]int{
	RoleViewer: 0,
	RoleEditor: 1,
	RoleAdmin:  2,
}

// Valid reports whether r is one of admin/editor/viewer.
func (r MemberRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
func (r MemberRole) AtLeast(min MemberRole) bool {
	return roleRank[r] >= roleRank[min]
}

// OrganizationMember is one row of an organization's member list.
// Every organization keeps at least one admin; removal or demotion of
// the last admin is rejected.
type OrganizationMember struct {
	UserID   string     `json:"userId"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Role     MemberRole `json:"role"`
	JoinedAt string     `json:"joinedAt"`
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
)

// OrganizationInvite is consumed exactly once by acceptance; otherwise it
// stays pending (no automatic expiry).
type OrganizationInvite struct {
	ID        string       `json:"id"`
	OrgID     string       `json:"orgId"`
	Email     string       `json:"email"`
	Role      MemberRole   `json:"role"`
	Status    InviteStatus `json:"status"`
	CreatedAt string       `json:"createdAt"`
}

// PendingInvite is an invite decorated with its organization's name for
// GET /user/invites.
type PendingInvite struct {
	OrganizationInvite
	OrganizationName string `json:"organizationName"`
}
