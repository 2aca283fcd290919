package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ListClients returns the scope's clients (empty slice when none).
func (r *Repository) ListClients(ctx context.Context, scope Scope) ([]models.Client, error) {
	clients := []models.Client{}
	if err := r.readList(ctx, scope.Key(keyClients), &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient appends a new client. Name and status are required; the id
// and creation timestamp are server-assigned.
func (r *Repository) CreateClient(ctx context.Context, scope Scope, name, status string, statusDate *string) (*models.Client, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("%w: name and status are required", ErrValidation)
	}

	client := models.Client{
		ID:         uuid.New().String(),
		Name:       name,
		Status:     status,
		StatusDate: statusDate,
		CreatedAt:  nowISO(),
	}

	err := r.updateList(ctx, scope.Key(keyClients), func(current json.RawMessage) (interface{}, error) {
		clients := []models.Client{}
		if current != nil {
			if err := json.Unmarshal(current, &clients); err != nil {
				return nil, err
			}
		}
		return append(clients, client), nil
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ClientPatch is a partial update; nil fields keep their stored values.
// StatusDateSet distinguishes "clear the date" (set, nil value) from
// "leave it alone" (unset).
type ClientPatch struct {
	Name          *string
	Status        *string
	StatusDate    *string
	StatusDateSet bool
}

// UpdateClient applies a patch to one client.
func (r *Repository) UpdateClient(ctx context.Context, scope Scope, id string, patch ClientPatch) (*models.Client, error) {
	var updated models.Client

	err := r.updateList(ctx, scope.Key(keyClients), func(current json.RawMessage) (interface{}, error) {
		clients := []models.Client{}
		if current != nil {
			if err := json.Unmarshal(current, &clients); err != nil {
				return nil, err
			}
		}

		for i := range clients {
			if clients[i].ID != id {
				continue
			}
			if patch.Name != nil {
				clients[i].Name = *patch.Name
			}
			if patch.Status != nil {
				clients[i].Status = *patch.Status
			}
			if patch.StatusDateSet {
				clients[i].StatusDate = patch.StatusDate
			}
			clients[i].UpdatedAt = nowISO()
			updated = clients[i]
			return clients, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteClient removes the client and cascades to every distribution
// referencing it. The two writes are separate KV updates; a failure in
// between leaves orphaned distributions, matching the documented
// non-transactional behavior.
func (r *Repository) DeleteClient(ctx context.Context, scope Scope, id string) error {
	err := r.updateList(ctx, scope.Key(keyClients), func(current json.RawMessage) (interface{}, error) {
		clients := []models.Client{}
		if current != nil {
			if err := json.Unmarshal(current, &clients); err != nil {
				return nil, err
			}
		}

		filtered := clients[:0]
		for _, c := range clients {
			if c.ID != id {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == len(clients) {
			return nil, ErrNotFound
		}
		return filtered, nil
	})
	if err != nil {
		return err
	}

	return r.deleteDistributionsWhere(ctx, scope, func(d models.Distribution) bool {
		return d.ClientID == id
	})
}
