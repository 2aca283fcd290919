package models

// ActivityTypeDistributionUpdate is the only activity type recorded today.
const ActivityTypeDistributionUpdate = "distribution_update"

// ActivityLogEntry is one row of the bounded, newest-first activity feed.
type ActivityLogEntry struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	ClientID   string `json:"clientId"`
	RetailerID string `json:"retailerId"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	Timestamp  string `json:"timestamp"`
}
