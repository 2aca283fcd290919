package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

// ListDistributions returns the scope's distributions (empty slice when
// none).
func (r *Repository) ListDistributions(ctx context.Context, scope Scope) ([]models.Distribution, error) {
	distributions := []models.Distribution{}
	if err := r.readList(ctx, scope.Key(keyDistributions), &distributions); err != nil {
		return nil, err
	}
	return distributions, nil
}

// UpsertDistribution writes the single record for the
// (clientID, retailerID) pair: replace when it exists, append when it
// does not. CreatedAt survives replacement; UpdatedAt always moves. The
// activity entry is recorded best-effort and never fails the upsert.
func (r *Repository) UpsertDistribution(ctx context.Context, scope Scope, clientID, retailerID, status, notes string) (*models.Distribution, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(retailerID) == "" {
		return nil, fmt.Errorf("%w: clientId and retailerId are required", ErrValidation)
	}

	timestamp := nowISO()
	record := models.Distribution{
		ClientID:   clientID,
		RetailerID: retailerID,
		Status:     status,
		Notes:      notes,
		UpdatedAt:  timestamp,
	}

	err := r.updateList(ctx, scope.Key(keyDistributions), func(current json.RawMessage) (interface{}, error) {
		distributions := []models.Distribution{}
		if current != nil {
			if err := json.Unmarshal(current, &distributions); err != nil {
				return nil, err
			}
		}

		for i := range distributions {
			if distributions[i].ClientID == clientID && distributions[i].RetailerID == retailerID {
				record.CreatedAt = distributions[i].CreatedAt
				distributions[i] = record
				return distributions, nil
			}
		}

		record.CreatedAt = timestamp
		return append(distributions, record), nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.RecordActivity(ctx, scope, models.ActivityLogEntry{
		Type:       models.ActivityTypeDistributionUpdate,
		ClientID:   clientID,
		RetailerID: retailerID,
		Status:     status,
		Notes:      notes,
		Timestamp:  timestamp,
	}); err != nil {
		fmt.Printf("[warn] failed to record activity for %s/%s: %v\n", clientID, retailerID, err)
	}

	return &record, nil
}

// deleteDistributionsWhere drops every distribution matching pred. Used
// by the client/retailer delete cascades.
func (r *Repository) deleteDistributionsWhere(ctx context.Context, scope Scope, pred func(models.Distribution) bool) error {
	return r.updateList(ctx, scope.Key(keyDistributions), func(current json.RawMessage) (interface{}, error) {
		distributions := []models.Distribution{}
		if current != nil {
			if err := json.Unmarshal(current, &distributions); err != nil {
				return nil, err
			}
		}

		filtered := distributions[:0]
		for _, d := range distributions {
			if !pred(d) {
				filtered = append(filtered, d)
			}
		}
		return filtered, nil
	})
}

// ClearScopeData wipes the scope's clients, retailers and distributions.
func (r *Repository) ClearScopeData(ctx context.Context, scope Scope) error {
	empty := json.RawMessage("[]")
	for _, name := range []string{keyClients, keyRetailers, keyDistributions} {
		if err := r.store.Set(ctx, scope.Key(name), empty); err != nil {
			return err
		}
	}
	return nil
}
