package repository

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

const (
	// maxHistoryEntries bounds the snapshot history (newest first).
	maxHistoryEntries = 90
	// reportHistoryEntries is how much history GET /analytics returns.
	reportHistoryEntries = 30
)

// computeMetrics derives the coverage summary from the raw collections.
// Only distributions with a non-empty status count; coverage is 0 when
// there are no possible client-retailer pairs.
func computeMetrics(clients []models.Client, retailers []models.Retailer, distributions []models.Distribution) (models.CurrentMetrics, map[string]int) {
	active := 0
	for _, d := range distributions {
		if d.Status != "" {
			active++
		}
	}

	coverage := 0
	if possible := len(clients) * len(retailers); possible > 0 {
		coverage = int(math.Round(float64(active) / float64(possible) * 100))
	}

	byStatus := map[string]int{}
	for _, c := range clients {
		byStatus[c.Status]++
	}

	return models.CurrentMetrics{
		TotalClients:         len(clients),
		TotalRetailers:       len(retailers),
		TotalDistributions:   active,
		DistributionCoverage: coverage,
	}, byStatus
}

// loadCollections reads the three entity arrays of a scope.
func (r *Repository) loadCollections(ctx context.Context, scope Scope) ([]models.Client, []models.Retailer, []models.Distribution, error) {
	clients, err := r.ListClients(ctx, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	retailers, err := r.ListRetailers(ctx, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	distributions, err := r.ListDistributions(ctx, scope)
	if err != nil {
		return nil, nil, nil, err
	}
	return clients, retailers, distributions, nil
}

// Analytics builds the GET /analytics report: live metrics plus the most
// recent history entries.
func (r *Repository) Analytics(ctx context.Context, scope Scope) (*models.AnalyticsReport, error) {
	clients, retailers, distributions, err := r.loadCollections(ctx, scope)
	if err != nil {
		return nil, err
	}

	history := []models.DailySnapshot{}
	if err := r.readList(ctx, scope.Key(keyAnalyticsHistory), &history); err != nil {
		return nil, err
	}
	if len(history) > reportHistoryEntries {
		history = history[:reportHistoryEntries]
	}

	current, byStatus := computeMetrics(clients, retailers, distributions)
	return &models.AnalyticsReport{
		Current:         current,
		ClientsByStatus: byStatus,
		History:         history,
	}, nil
}

// Snapshot upserts today's entry into the analytics history: an existing
// entry for the same calendar date is replaced in place, otherwise the
// snapshot is prepended and the history truncated to the bound.
func (r *Repository) Snapshot(ctx context.Context, scope Scope, now time.Time) (*models.DailySnapshot, error) {
	clients, retailers, distributions, err := r.loadCollections(ctx, scope)
	if err != nil {
		return nil, err
	}

	current, byStatus := computeMetrics(clients, retailers, distributions)
	snapshot := models.DailySnapshot{
		Date:                 now.Format("2006-01-02"),
		TotalClients:         current.TotalClients,
		TotalRetailers:       current.TotalRetailers,
		TotalDistributions:   current.TotalDistributions,
		ClientsByStatus:      byStatus,
		DistributionCoverage: current.DistributionCoverage,
	}

	err = r.updateList(ctx, scope.Key(keyAnalyticsHistory), func(currentRaw json.RawMessage) (interface{}, error) {
		history := []models.DailySnapshot{}
		if currentRaw != nil {
			if err := json.Unmarshal(currentRaw, &history); err != nil {
				return nil, err
			}
		}

		replaced := false
		for i := range history {
			if history[i].Date == snapshot.Date {
				history[i] = snapshot
				replaced = true
				break
			}
		}
		if !replaced {
			history = append([]models.DailySnapshot{snapshot}, history...)
		}
		if len(history) > maxHistoryEntries {
			history = history[:maxHistoryEntries]
		}
		return history, nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
