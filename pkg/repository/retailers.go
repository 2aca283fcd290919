package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

var retailerSlugPattern = regexp.MustCompile(`[^a-z0-9]`)

// retailerID builds the historical id format: slugified name plus the
// creation time in unix milliseconds.
func retailerID(name string) string {
	slug := retailerSlugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}

// ListRetailers returns the scope's retailers (empty slice when none).
func (r *Repository) ListRetailers(ctx context.Context, scope Scope) ([]models.Retailer, error) {
	retailers := []models.Retailer{}
	if err := r.readList(ctx, scope.Key(keyRetailers), &retailers); err != nil {
		return nil, err
	}
	return retailers, nil
}

// CreateRetailer appends a new retailer. Name, category and type are
// required; contacts start empty.
func (r *Repository) CreateRetailer(ctx context.Context, scope Scope, name, category, retailerType string) (*models.Retailer, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(category) == "" || strings.TrimSpace(retailerType) == "" {
		return nil, fmt.Errorf("%w: name, category, and type are required", ErrValidation)
	}

	retailer := models.Retailer{
		ID:        retailerID(name),
		Name:      name,
		Category:  category,
		Type:      retailerType,
		Contacts:  []models.RetailerContact{},
		CreatedAt: nowISO(),
	}

	err := r.updateList(ctx, scope.Key(keyRetailers), func(current json.RawMessage) (interface{}, error) {
		retailers := []models.Retailer{}
		if current != nil {
			if err := json.Unmarshal(current, &retailers); err != nil {
				return nil, err
			}
		}
		return append(retailers, retailer), nil
	})
	if err != nil {
		return nil, err
	}
	return &retailer, nil
}

// RetailerPatch is a partial update; nil pointer fields keep their stored
// values, the *Set flags distinguish explicit replacement (possibly with
// a zero value) from an absent field.
type RetailerPatch struct {
	Name                *string
	Category            *string
	Type                *string
	Contacts            []models.RetailerContact
	ContactsSet         bool
	LineReviewTiming    *string
	LineReviewTimingSet bool
	ResetDates          *string
	ResetDatesSet       bool
	Notes               *string
	NotesSet            bool
}

// UpdateRetailer applies a patch to one retailer.
func (r *Repository) UpdateRetailer(ctx context.Context, scope Scope, id string, patch RetailerPatch) (*models.Retailer, error) {
	var updated models.Retailer

	err := r.updateList(ctx, scope.Key(keyRetailers), func(current json.RawMessage) (interface{}, error) {
		retailers := []models.Retailer{}
		if current != nil {
			if err := json.Unmarshal(current, &retailers); err != nil {
				return nil, err
			}
		}

		for i := range retailers {
			if retailers[i].ID != id {
				continue
			}
			if patch.Name != nil {
				retailers[i].Name = *patch.Name
			}
			if patch.Category != nil {
				retailers[i].Category = *patch.Category
			}
			if patch.Type != nil {
				retailers[i].Type = *patch.Type
			}
			if patch.ContactsSet {
				contacts := patch.Contacts
				if contacts == nil {
					contacts = []models.RetailerContact{}
				}
				retailers[i].Contacts = contacts
			}
			if patch.LineReviewTimingSet {
				retailers[i].LineReviewTiming = deref(patch.LineReviewTiming)
			}
			if patch.ResetDatesSet {
				retailers[i].ResetDates = deref(patch.ResetDates)
			}
			if patch.NotesSet {
				retailers[i].Notes = deref(patch.Notes)
			}
			retailers[i].UpdatedAt = nowISO()
			updated = retailers[i]
			return retailers, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRetailer removes the retailer and cascades to every distribution
// referencing it.
func (r *Repository) DeleteRetailer(ctx context.Context, scope Scope, id string) error {
	err := r.updateList(ctx, scope.Key(keyRetailers), func(current json.RawMessage) (interface{}, error) {
		retailers := []models.Retailer{}
		if current != nil {
			if err := json.Unmarshal(current, &retailers); err != nil {
				return nil, err
			}
		}

		filtered := retailers[:0]
		for _, rt := range retailers {
			if rt.ID != id {
				filtered = append(filtered, rt)
			}
		}
		if len(filtered) == len(retailers) {
			return nil, ErrNotFound
		}
		return filtered, nil
	})
	if err != nil {
		return err
	}

	return r.deleteDistributionsWhere(ctx, scope, func(d models.Distribution) bool {
		return d.RetailerID == id
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
