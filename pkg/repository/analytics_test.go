package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

func TestComputeMetricsCoverage(t *testing.T) {
	clients := []models.Client{{ID: "1", Status: "Active"}, {ID: "2", Status: "Live"}}
	retailers := []models.Retailer{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}
	distributions := []models.Distribution{
		{ClientID: "1", RetailerID: "r1", Status: "shelves"},
		{ClientID: "1", RetailerID: "r2", Status: "shelves-screens"},
		{ClientID: "2", RetailerID: "r1", Status: ""}, // cleared cell, not active
	}

	metrics, byStatus := computeMetrics(clients, retailers, distributions)
	assert.Equal(t, 2, metrics.TotalClients)
	assert.Equal(t, 3, metrics.TotalRetailers)
	assert.Equal(t, 2, metrics.TotalDistributions)
	// round(2/6*100) = 33
	assert.Equal(t, 33, metrics.DistributionCoverage)
	assert.Equal(t, map[string]int{"Active": 1, "Live": 1}, byStatus)
}

func TestComputeMetricsZeroDenominator(t *testing.T) {
	metrics, _ := computeMetrics(nil, nil, nil)
	assert.Equal(t, 0, metrics.DistributionCoverage)

	// Clients but no retailers still divides by zero pairs.
	metrics, _ = computeMetrics([]models.Client{{ID: "1", Status: "Active"}}, nil,
		[]models.Distribution{{ClientID: "1", RetailerID: "ghost", Status: "shelves"}})
	assert.Equal(t, 0, metrics.DistributionCoverage)
}

func TestSnapshotUpsertsByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	_, err := repo.CreateClient(ctx, scope, "Acme", "Active", nil)
	require.NoError(t, err)

	first, err := repo.Snapshot(ctx, scope, day)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", first.Date)
	assert.Equal(t, 1, first.TotalClients)

	// Same day again after a change: replaced in place, not appended.
	_, err = repo.CreateClient(ctx, scope, "Beta", "Live", nil)
	require.NoError(t, err)

	second, err := repo.Snapshot(ctx, scope, day.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, second.TotalClients)

	report, err := repo.Analytics(ctx, scope)
	require.NoError(t, err)
	require.Len(t, report.History, 1)
	assert.Equal(t, 2, report.History[0].TotalClients)

	// A new day prepends.
	_, err = repo.Snapshot(ctx, scope, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	report, err = repo.Analytics(ctx, scope)
	require.NoError(t, err)
	require.Len(t, report.History, 2)
	assert.Equal(t, "2026-03-15", report.History[0].Date)
}

func TestSnapshotHistoryBounded(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxHistoryEntries+5; i++ {
		_, err := repo.Snapshot(ctx, scope, day.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	history := []models.DailySnapshot{}
	require.NoError(t, repo.readList(ctx, scope.Key(keyAnalyticsHistory), &history))
	require.Len(t, history, maxHistoryEntries)

	// Newest first; the earliest five days fell off.
	assert.Equal(t, day.AddDate(0, 0, maxHistoryEntries+4).Format("2006-01-02"), history[0].Date)
}

func TestAnalyticsReportTruncatesHistory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < reportHistoryEntries+10; i++ {
		_, err := repo.Snapshot(ctx, scope, day.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	report, err := repo.Analytics(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, report.History, reportHistoryEntries)
	assert.Equal(t, day.AddDate(0, 0, reportHistoryEntries+9).Format("2006-01-02"), report.History[0].Date)
}

func TestAnalyticsLiveMetrics(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	for i := 0; i < 2; i++ {
		_, err := repo.CreateClient(ctx, scope, "Client", "Active", nil)
		require.NoError(t, err)
	}
	retailer, err := repo.CreateRetailer(ctx, scope, "Retailer", "Physical", "Grocery")
	require.NoError(t, err)

	clients, err := repo.ListClients(ctx, scope)
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, clients[0].ID, retailer.ID, "shelves", "")
	require.NoError(t, err)

	report, err := repo.Analytics(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Current.TotalClients)
	assert.Equal(t, 1, report.Current.TotalRetailers)
	assert.Equal(t, 1, report.Current.TotalDistributions)
	// round(1/2*100) = 50
	assert.Equal(t, 50, report.Current.DistributionCoverage)
	assert.Equal(t, map[string]int{"Active": 2}, report.ClientsByStatus)
	assert.Empty(t, report.History)
}
