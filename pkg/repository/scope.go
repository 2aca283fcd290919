package repository

// KV key names shared between the global (legacy single-tenant) scope and
// the per-organization namespaces.
const (
	keyClients          = "clients"
	keyRetailers        = "retailers"
	keyDistributions    = "distributions"
	keyActivityLog      = "activity_log"
	keyAnalyticsHistory = "analytics_history"
)

// Scope addresses one tenant's slice of the KV store. The zero value is
// the legacy global scope whose keys are unprefixed; an organization
// scope prefixes every key with "org:<id>:".
type Scope struct {
	OrgID string
}

// GlobalScope is the legacy single-tenant namespace (deprecated; kept for
// accounts without an organization and public-read deployments).
func GlobalScope() Scope {
	return Scope{}
}

// OrgScope namespaces keys under the given organization.
func OrgScope(orgID string) Scope {
	return Scope{OrgID: orgID}
}

// IsOrg reports whether the scope belongs to an organization.
func (s Scope) IsOrg() bool {
	return s.OrgID != ""
}

// Key resolves a logical key name within the scope.
func (s Scope) Key(name string) string {
	if s.OrgID == "" {
		return name
	}
	return "org:" + s.OrgID + ":" + name
}
