// Package repository implements the organization-scoped data layer on
// top of the KV store: entity collections as whole-array JSON blobs,
// membership records, the bounded activity log and the analytics history.
// Every mutation goes through kv.Store.Update so concurrent requests on
// the same key are serialized where the backend supports it.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/justin362/distribution-matrix-v2/pkg/kv"
)

var (
	// ErrNotFound means the addressed entity id does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("repository: validation failed")
	// ErrNotMember means the user has no membership in the organization.
	ErrNotMember = errors.New("repository: not a member of organization")
	// ErrLastAdmin guards the invariant that every organization keeps at
	// least one admin.
	ErrLastAdmin = errors.New("repository: organization must keep at least one admin")
	// ErrInviteInvalid means the invite is missing, consumed, or
	// addressed to someone else.
	ErrInviteInvalid = errors.New("repository: invalid or expired invite")
)

// Repository bundles all data access behind one type, mirroring the
// single database interface the handlers talk to.
type Repository struct {
	store kv.Store
}

// New creates a Repository on the given store.
func New(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying KV store for health checks.
func (r *Repository) Store() kv.Store {
	return r.store
}

// readList loads a JSON array key into out, treating a missing key as an
// empty list.
func (r *Repository) readList(ctx context.Context, key string, out interface{}) error {
	err := kv.GetJSON(ctx, r.store, key, out)
	if err == kv.ErrNotFound {
		return nil
	}
	return err
}

// updateList runs a read-modify-write cycle on a JSON array key. fn
// receives the decoded current list via the raw message (nil when the key
// is absent) and returns the replacement value.
func (r *Repository) updateList(ctx context.Context, key string, fn func(current json.RawMessage) (interface{}, error)) error {
	return r.store.Update(ctx, key, func(current json.RawMessage) (json.RawMessage, error) {
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}
