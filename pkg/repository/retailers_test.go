package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

func TestCreateRetailerIDFormat(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	retailer, err := repo.CreateRetailer(ctx, GlobalScope(), "Best Buy & Co.", "Physical", "Electronics")
	require.NoError(t, err)

	// Slugified name plus millisecond suffix.
	assert.Regexp(t, regexp.MustCompile(`^best-buy---co--\d+$`), retailer.ID)
	assert.NotNil(t, retailer.Contacts)
	assert.Empty(t, retailer.Contacts)
}

func TestCreateRetailerValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()

	_, err := repo.CreateRetailer(ctx, GlobalScope(), "", "Physical", "Grocery")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = repo.CreateRetailer(ctx, GlobalScope(), "Kroger", "", "Grocery")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = repo.CreateRetailer(ctx, GlobalScope(), "Kroger", "Physical", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRetailerTriState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	retailer, err := repo.CreateRetailer(ctx, scope, "Kroger", "Physical", "Grocery")
	require.NoError(t, err)

	updated, err := repo.UpdateRetailer(ctx, scope, retailer.ID, RetailerPatch{
		Notes:    strp("call in January"),
		NotesSet: true,
		Contacts: []models.RetailerContact{{ID: "c1", Name: "Pat"}},
		ContactsSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "call in January", updated.Notes)
	require.Len(t, updated.Contacts, 1)

	// Omitted fields keep their values.
	updated, err = repo.UpdateRetailer(ctx, scope, retailer.ID, RetailerPatch{Name: strp("Kroger Co")})
	require.NoError(t, err)
	assert.Equal(t, "call in January", updated.Notes)
	require.Len(t, updated.Contacts, 1)

	// Explicit clears.
	updated, err = repo.UpdateRetailer(ctx, scope, retailer.ID, RetailerPatch{
		NotesSet:    true,
		ContactsSet: true,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Notes)
	assert.NotNil(t, updated.Contacts)
	assert.Empty(t, updated.Contacts)
}

func TestDeleteRetailerCascadesDistributions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	scope := GlobalScope()

	client, err := repo.CreateClient(ctx, scope, "Acme", "Active", nil)
	require.NoError(t, err)
	keep, err := repo.CreateRetailer(ctx, scope, "Keep", "Physical", "Grocery")
	require.NoError(t, err)
	drop, err := repo.CreateRetailer(ctx, scope, "Drop", "Digital", "E-commerce")
	require.NoError(t, err)

	_, err = repo.UpsertDistribution(ctx, scope, client.ID, keep.ID, "shelves", "")
	require.NoError(t, err)
	_, err = repo.UpsertDistribution(ctx, scope, client.ID, drop.ID, "shelves", "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteRetailer(ctx, scope, drop.ID))

	distributions, err := repo.ListDistributions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, distributions, 1)
	assert.Equal(t, keep.ID, distributions[0].RetailerID)
}
