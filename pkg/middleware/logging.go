package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/justin362/distribution-matrix-v2/pkg/config"
)

// logOutput is swappable for tests.
var logOutput io.Writer = os.Stdout

// Logger picks the request logger for the environment: chi's colored
// logger in development, one structured JSON line per request in
// production.
func Logger(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.IsProduction() {
		return structuredLogger
	}
	return middleware.Logger
}

// logUserRef is planted into the context before the auth middleware
// runs. Auth operates on a derived request the logger never sees, so it
// reports the resolved identity back through this shared reference.
type logUserRef struct {
	email string
}

const logUserKey ContextKey = "logUser"

// noteAuthenticatedUser records the caller's identity for the request
// log line, when a logger planted a reference.
func noteAuthenticatedUser(ctx context.Context, email string) {
	if ref, ok := ctx.Value(logUserKey).(*logUserRef); ok {
		ref.email = email
	}
}

func structuredLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ref := &logUserRef{email: "anonymous"}
		r = r.WithContext(context.WithValue(r.Context(), logUserKey, ref))

		next.ServeHTTP(ww, r)

		fmt.Fprintf(logOutput, `{"time":"%s","method":"%s","path":"%s","status":%d,"duration":"%s","user":"%s","ip":"%s"}`+"\n",
			time.Now().Format(time.RFC3339),
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			ref.email,
			clientIP(r),
		)
	})
}

// clientIP resolves the caller's address behind proxies.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
