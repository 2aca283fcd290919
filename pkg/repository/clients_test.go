package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
)

func newTestRepo() *Repository {
	return New(kv.NewMemoryStore())
}

func strp(s string) *string { return &s }

func TestCreateAndListClients(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	clients, err := repo.ListClients(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, clients)

	created, err := repo.CreateClient(ctx, scope, "Acme", "Active", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Nil(t, created.StatusDate)

	clients, err = repo.ListClients(ctx, scope)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme", clients[0].Name)
}

func TestCreateClientValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	_, err := repo.CreateClient(ctx, GlobalScope(), "", "Active", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.CreateClient(ctx, GlobalScope(), "Acme", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateClientPartial(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	created, err := repo.CreateClient(ctx, scope, "Acme", "Projected", strp("Q1 2026"))
	require.NoError(t, err)

	// Only status changes; name and statusDate stay.
	updated, err := repo.UpdateClient(ctx, scope, created.ID, ClientPatch{Status: strp("Live")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "Live", updated.Status)
	require.NotNil(t, updated.StatusDate)
	assert.Equal(t, "Q1 2026", *updated.StatusDate)
	assert.NotEmpty(t, updated.UpdatedAt)

	// Explicitly clearing the date is different from omitting it.
	updated, err = repo.UpdateClient(ctx, scope, created.ID, ClientPatch{StatusDateSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.StatusDate)
}

func TestUpdateClientNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	_, err := repo.UpdateClient(ctx, GlobalScope(), "missing", ClientPatch{Name: strp("X")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteClientCascadesDistributions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	a, err := repo.CreateClient(ctx, scope, "A", "Active", nil)
	require.NoError(t, err)
	b, err := repo.CreateClient(ctx, scope, "B", "Active", nil)
	require.NoError(t, err)
	retailer, err := repo.CreateRetailer(ctx, scope, "Target", "Physical", "Mass Merchant")
	require.NoError(t, err)

	_, err = repo.UpsertDistribution(ctx, scope, a.ID, retailer.ID, "shelves", "")
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, b.ID, retailer.ID, "shelves", "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteClient(ctx, scope, a.ID))

	clients, err := repo.ListClients(ctx, scope)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, b.ID, clients[0].ID)

	distributions, err := repo.ListDistributions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, distributions, 1)
	assert.Equal(t, b.ID, distributions[0].ClientID)
}

func TestDeleteClientNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	err := repo.DeleteClient(ctx, GlobalScope(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	_, err := repo.CreateClient(ctx, OrgScope("org-a"), "A-only", "Active", nil)
	require.NoError(t, err)

	clients, err := repo.ListClients(ctx, OrgScope("org-b"))
	require.NoError(t, err)
	assert.Empty(t, clients)

	clients, err = repo.ListClients(ctx, GlobalScope())
	require.NoError(t, err)
	assert.Empty(t, clients)
}
