package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

// maxActivityEntries bounds the activity feed; the oldest entry is
// dropped once exceeded.
const maxActivityEntries = 100

// RecordActivity prepends one entry to the newest-first activity log and
// truncates it to the bound. The id is assigned here.
func (r *Repository) RecordActivity(ctx context.Context, scope Scope, entry models.ActivityLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = nowISO()
	}

	return r.updateList(ctx, scope.Key(keyActivityLog), func(current json.RawMessage) (interface{}, error) {
		log := []models.ActivityLogEntry{}
		if current != nil {
			if err := json.Unmarshal(current, &log); err != nil {
				return nil, err
			}
		}

		log = append([]models.ActivityLogEntry{entry}, log...)
		if len(log) > maxActivityEntries {
			log = log[:maxActivityEntries]
		}
		return log, nil
	})
}

// ListActivity returns the bounded newest-first activity feed.
func (r *Repository) ListActivity(ctx context.Context, scope Scope) ([]models.ActivityLogEntry, error) {
	log := []models.ActivityLogEntry{}
	if err := r.readList(ctx, scope.Key(keyActivityLog), &log); err != nil {
		return nil, err
	}
	return log, nil
}
