package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SupabaseStore talks to the kv_store table through the Supabase REST
// API (PostgREST) using the service key. It exists for serverless
// deployments where a direct Postgres connection is unavailable.
//
// PostgREST offers no row-lock primitive, so Update here is a plain
// get-mutate-set: concurrent writers on the same key are last-writer-wins
// on this backend.
type SupabaseStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSupabaseStore creates a REST-backed store.
func NewSupabaseStore(rawURL, key string) *SupabaseStore {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "https://" + rawURL
	}
	return &SupabaseStore{
		baseURL: strings.TrimSuffix(rawURL, "/"),
		apiKey:  key,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// kvRow mirrors the kv_store table shape over the wire.
type kvRow struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// request performs one REST call and returns the response body.
func (s *SupabaseStore) request(ctx context.Context, method, endpoint string, body interface{}, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/rest/v1"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("supabase request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (s *SupabaseStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	endpoint := "/kv_store?select=value&key=eq." + url.QueryEscape(key)
	data, err := s.request(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []kvRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].Value, nil
}

func (s *SupabaseStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=minimal",
	}
	_, err := s.request(ctx, http.MethodPost, "/kv_store", kvRow{Key: key, Value: value}, headers)
	return err
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	endpoint := "/kv_store?key=eq." + url.QueryEscape(key)
	_, err := s.request(ctx, http.MethodDelete, endpoint, nil, nil)
	return err
}

func (s *SupabaseStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	// PostgREST uses * as the like wildcard.
	endpoint := "/kv_store?select=key&key=like." + url.QueryEscape(prefix+"*")
	data, err := s.request(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []kvRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode keys %s: %w", prefix, err)
	}
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key)
	}
	return keys, nil
}

func (s *SupabaseStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	current, err := s.Get(ctx, key)
	if err != nil && err != ErrNotFound {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next)
}

func (s *SupabaseStore) HealthCheck(ctx context.Context) error {
	_, err := s.request(ctx, http.MethodGet, "/kv_store?select=key&limit=1", nil, nil)
	return err
}

func (s *SupabaseStore) Close() error { return nil }
