package models

// Client statuses as used by the matrix UI.
const (
	ClientStatusActive     = "Active"
	ClientStatusLive       = "Live"
	ClientStatusProjected  = "Projected"
	ClientStatusRecruiting = "Recruiting"
)

// Client is a retail client tracked in the distribution matrix.
// Timestamps are ISO-8601 strings because they round-trip through the
// KV store and the frontend as-is.
type Client struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	StatusDate *string `json:"statusDate"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}
