package repository

import (
	"context"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

// SeedSampleData populates a scope with demo data so a fresh account has
// something to look at. Each collection is only written when its key is
// still empty; existing data is never touched.
func (r *Repository) SeedSampleData(ctx context.Context, scope Scope) error {
	now := nowISO()

	clients := []models.Client{
		{ID: "1", Name: "Sample Client A", Status: models.ClientStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: "2", Name: "Sample Client B", Status: models.ClientStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: "3", Name: "Sample Client C", Status: models.ClientStatusLive, StatusDate: strPtr("Q1 2026"), CreatedAt: now, UpdatedAt: now},
		{ID: "4", Name: "Sample Client D", Status: models.ClientStatusProjected, StatusDate: strPtr("Q2 2026"), CreatedAt: now, UpdatedAt: now},
		{ID: "5", Name: "Sample Client E", Status: models.ClientStatusRecruiting, CreatedAt: now, UpdatedAt: now},
	}

	retailers := []models.Retailer{
		{ID: "retailer-1", Name: "Retailer 1", Category: models.RetailerCategoryPhysical, Type: "Mass Merchant", Contacts: []models.RetailerContact{}, CreatedAt: now, UpdatedAt: now},
		{ID: "retailer-2", Name: "Retailer 2", Category: models.RetailerCategoryPhysical, Type: "Warehouse", Contacts: []models.RetailerContact{}, CreatedAt: now, UpdatedAt: now},
		{ID: "retailer-3", Name: "Retailer 3", Category: models.RetailerCategoryPhysical, Type: "Grocery", Contacts: []models.RetailerContact{}, CreatedAt: now, UpdatedAt: now},
		{ID: "retailer-4", Name: "Retailer 4", Category: models.RetailerCategoryDigital, Type: "E-commerce", Contacts: []models.RetailerContact{}, CreatedAt: now, UpdatedAt: now},
	}

	distributions := []models.Distribution{
		{ClientID: "1", RetailerID: "retailer-1", Status: models.DistributionShelves, CreatedAt: now, UpdatedAt: now},
		{ClientID: "1", RetailerID: "retailer-2", Status: models.DistributionShelves, CreatedAt: now, UpdatedAt: now},
		{ClientID: "2", RetailerID: "retailer-1", Status: models.DistributionShelvesScreens, CreatedAt: now, UpdatedAt: now},
		{ClientID: "2", RetailerID: "retailer-3", Status: models.DistributionShelvesScreens, CreatedAt: now, UpdatedAt: now},
		{ClientID: "3", RetailerID: "retailer-4", Status: models.DistributionShelvesScreens, CreatedAt: now, UpdatedAt: now},
	}

	if err := r.seedIfEmpty(ctx, scope.Key(keyClients), clients); err != nil {
		return err
	}
	if err := r.seedIfEmpty(ctx, scope.Key(keyRetailers), retailers); err != nil {
		return err
	}
	return r.seedIfEmpty(ctx, scope.Key(keyDistributions), distributions)
}

func (r *Repository) seedIfEmpty(ctx context.Context, key string, value interface{}) error {
	raw, err := r.store.Get(ctx, key)
	if err != nil && err != kv.ErrNotFound {
		return err
	}
	if err == nil && len(raw) > 0 && string(raw) != "[]" && string(raw) != "null" {
		return nil
	}
	return kv.SetJSON(ctx, r.store, key, value)
}

func strPtr(s string) *string { return &s }
