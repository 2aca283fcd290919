package repository

import (
	"context"
	"encoding/json"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
)

func profileKey(userID string) string {
	return "user:" + userID + ":profile"
}

// Profile returns the user's profile, creating an empty one on first
// fetch.
func (r *Repository) Profile(ctx context.Context, user *models.User) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := kv.GetJSON(ctx, r.store, profileKey(user.ID), profile)
	if err == nil {
		return profile, nil
	}
	if err != kv.ErrNotFound {
		return nil, err
	}

	profile = &models.UserProfile{
		UserID:        user.ID,
		Email:         user.Email,
		Name:          user.Name,
		CurrentOrgID:  nil,
		Organizations: []models.ProfileMembership{},
	}
	if err := kv.SetJSON(ctx, r.store, profileKey(user.ID), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// updateProfile runs a read-modify-write on one profile key. When the
// profile does not exist yet, fn receives a fresh one seeded from the
// fallback identity (may be nil to require existence).
func (r *Repository) updateProfile(ctx context.Context, userID string, fallback *models.User, fn func(p *models.UserProfile) error) error {
	return r.store.Update(ctx, profileKey(userID), func(current json.RawMessage) (json.RawMessage, error) {
		profile := &models.UserProfile{}
		if current != nil {
			if err := json.Unmarshal(current, profile); err != nil {
				return nil, err
			}
		} else {
			if fallback == nil {
				return nil, ErrNotFound
			}
			profile = &models.UserProfile{
				UserID:        fallback.ID,
				Email:         fallback.Email,
				Name:          fallback.Name,
				Organizations: []models.ProfileMembership{},
			}
		}

		if err := fn(profile); err != nil {
			return nil, err
		}
		return json.Marshal(profile)
	})
}

// membershipFor looks up the user's role in an organization from the
// profile's membership index.
func membershipFor(profile *models.UserProfile, orgID string) (models.MemberRole, bool) {
	for _, m := range profile.Organizations {
		if m.OrgID == orgID {
			return m.Role, true
		}
	}
	return "", false
}
