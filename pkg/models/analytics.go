package models

// CurrentMetrics is the point-in-time coverage summary.
// TotalDistributions counts only distributions with a non-empty status.
type CurrentMetrics struct {
	TotalClients         int `json:"totalClients"`
	TotalRetailers       int `json:"totalRetailers"`
	TotalDistributions   int `json:"totalDistributions"`
	DistributionCoverage int `json:"distributionCoverage"`
}

// DailySnapshot is one dated entry of the analytics history. Upserted by
// calendar date, history bounded to the most recent 90 entries.
type DailySnapshot struct {
	Date                 string         `json:"date"`
	TotalClients         int            `json:"totalClients"`
	TotalRetailers       int            `json:"totalRetailers"`
	TotalDistributions   int            `json:"totalDistributions"`
	ClientsByStatus      map[string]int `json:"clientsByStatus"`
	DistributionCoverage int            `json:"distributionCoverage"`
}

// AnalyticsReport is the GET /analytics response: live metrics plus the
// last 30 history entries for trend charting.
type AnalyticsReport struct {
	Current         CurrentMetrics  `json:"current"`
	ClientsByStatus map[string]int  `json:"clientsByStatus"`
	History         []DailySnapshot `json:"history"`
}
