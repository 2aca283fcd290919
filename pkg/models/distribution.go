package models

// Distribution statuses. The empty string means "no active distribution"
// and is a legal stored value (it clears a cell in the matrix).
const (
	DistributionShelves        = "shelves"
	DistributionShelvesScreens = "shelves-screens"
	DistributionXClient        = "x-client"
	DistributionNone           = ""
)

// Distribution relates one client to one retailer. At most one record
// exists per (clientId, retailerId) pair; writes are upserts.
type Distribution struct {
	ClientID   string `json:"clientId"`
	RetailerID string `json:"retailerId"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt"`
}
