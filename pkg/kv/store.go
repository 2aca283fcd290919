package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// UpdateFunc receives the current value of a key (nil if absent) and
// returns the value to store. Returning an error aborts the update and
// leaves the key untouched.
type UpdateFunc func(current json.RawMessage) (json.RawMessage, error)

// Store is the persistence collaborator: an opaque JSON blob store keyed
// by string. Update performs a read-modify-write that is serialized per
// key where the backend supports it (Postgres row lock, Redis WATCH,
// in-memory mutex), so concurrent whole-array rewrites cannot clobber
// each other. The Supabase REST backend cannot lock and degrades to
// get-mutate-set.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error

	// Keys lists all keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Update applies fn to the current value of key and stores the result.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	HealthCheck(ctx context.Context) error
	Close() error
}

// GetJSON reads key and unmarshals it into v. ErrNotFound passes through.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// Config selects and configures a backend.
type Config struct {
	PostgresDSN string
	SupabaseURL string
	SupabaseKey string
	RedisURL    string
	Debug       bool
}

// NewStore picks a backend by configuration priority:
// PostgreSQL > Supabase REST > Redis > in-memory.
func NewStore(cfg Config) (Store, error) {
	if isServerlessEnvironment() {
		// Serverless prefers Supabase REST (avoids IPv6 issues on Vercel).
		if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
			fmt.Printf("🚀  Using Supabase REST KV store (serverless optimized)\n")
			return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey), nil
		}
	}

	if cfg.PostgresDSN != "" {
		fmt.Printf("🗄️  Using PostgreSQL KV store\n")
		return NewPostgresStore(cfg.PostgresDSN)
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		fmt.Printf("🧰  Using Supabase REST KV store\n")
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey), nil
	}

	if cfg.RedisURL != "" {
		fmt.Printf("🧭  Using Redis KV store\n")
		return NewRedisStore(cfg.RedisURL)
	}

	fmt.Printf("⚠️  No KV backend configured, falling back to in-memory store (data is not persisted)\n")
	return NewMemoryStore(), nil
}

// isServerlessEnvironment detects Vercel/Lambda style runtimes.
func isServerlessEnvironment() bool {
	return os.Getenv("VERCEL_ENV") != "" ||
		os.Getenv("VERCEL_URL") != "" ||
		os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
