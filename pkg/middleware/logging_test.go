package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin362/distribution-matrix-v2/pkg/config"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	old := logOutput
	logOutput = buf
	t.Cleanup(func() { logOutput = old })
	return buf
}

func TestStructuredLoggerRecordsAuthenticatedUser(t *testing.T) {
	cfg := &config.Config{Environment: "production", JWTSecret: "test-secret"}
	buf := captureLog(t)

	handler := structuredLogger(AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	token, _, _, err := utils.NewJWTService(cfg.JWTSecret).GenerateTokenPair("u1", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// Auth runs on a derived request; the identity still reaches the log
	// line through the planted reference.
	assert.Contains(t, buf.String(), `"user":"alice@example.com"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestStructuredLoggerAnonymousWithoutToken(t *testing.T) {
	cfg := &config.Config{Environment: "production", JWTSecret: "test-secret"}
	buf := captureLog(t)

	handler := structuredLogger(OptionalAuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/clients", nil))

	assert.Contains(t, buf.String(), `"user":"anonymous"`)
}
