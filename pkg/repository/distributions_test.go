package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

func TestUpsertDistributionKeepsOneRecordPerPair(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	first, err := repo.UpsertDistribution(ctx, scope, "c1", "r1", "shelves", "initial")
	require.NoError(t, err)
	assert.NotEmpty(t, first.CreatedAt)

	second, err := repo.UpsertDistribution(ctx, scope, "c1", "r1", "shelves-screens", "replaced")
	require.NoError(t, err)

	distributions, err := repo.ListDistributions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, distributions, 1)
	assert.Equal(t, "shelves-screens", distributions[0].Status)
	assert.Equal(t, "replaced", distributions[0].Notes)

	// CreatedAt survives replacement.
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestUpsertDistributionDistinctPairs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	_, err := repo.UpsertDistribution(ctx, scope, "c1", "r1", "shelves", "")
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, "c1", "r2", "shelves", "")
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, "c2", "r1", "shelves", "")
	require.NoError(t, err)

	distributions, err := repo.ListDistributions(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, distributions, 3)
}

func TestUpsertDistributionEmptyStatusClearsCell(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	_, err := repo.UpsertDistribution(ctx, scope, "c1", "r1", "shelves", "")
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, "c1", "r1", models.DistributionNone, "")
	require.NoError(t, err)

	distributions, err := repo.ListDistributions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, distributions, 1)
	assert.Empty(t, distributions[0].Status)
}

func TestUpsertDistributionValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	_, err := repo.UpsertDistribution(ctx, GlobalScope(), "", "r1", "shelves", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = repo.UpsertDistribution(ctx, GlobalScope(), "c1", "", "shelves", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpsertDistributionRecordsActivity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	_, err := repo.UpsertDistribution(ctx, scope, "c1", "r1", "shelves", "note")
	require.NoError(t, err)

	log, err := repo.ListActivity(ctx, scope)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, models.ActivityTypeDistributionUpdate, log[0].Type)
	assert.Equal(t, "c1", log[0].ClientID)
	assert.Equal(t, "r1", log[0].RetailerID)
	assert.Equal(t, "shelves", log[0].Status)
	assert.NotEmpty(t, log[0].ID)
	assert.NotEmpty(t, log[0].Timestamp)
}

func TestActivityLogBoundedNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	for i := 0; i < maxActivityEntries+10; i++ {
		err := repo.RecordActivity(ctx, scope, models.ActivityLogEntry{
			Type:     models.ActivityTypeDistributionUpdate,
			ClientID: fmt.Sprintf("c%d", i),
		})
		require.NoError(t, err)
	}

	log, err := repo.ListActivity(ctx, scope)
	require.NoError(t, err)
	require.Len(t, log, maxActivityEntries)

	// Newest entry first; the oldest ten fell off.
	assert.Equal(t, fmt.Sprintf("c%d", maxActivityEntries+9), log[0].ClientID)
	assert.Equal(t, "c10", log[len(log)-1].ClientID)
}

func TestClearScopeDataLeavesHistory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	_, err := repo.CreateClient(ctx, scope, "Acme", "Active", nil)
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, "c1", "r1", "shelves", "")
	require.NoError(t, err)

	require.NoError(t, repo.ClearScopeData(ctx, scope))

	clients, err := repo.ListClients(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, clients)
	distributions, err := repo.ListDistributions(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, distributions)

	// The activity feed survives the wipe.
	log, err := repo.ListActivity(ctx, scope)
	require.NoError(t, err)
	assert.NotEmpty(t, log)
}
