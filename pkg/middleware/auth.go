package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/justin362/distribution-matrix-v2/pkg/config"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// ContextKey is the type for values stored in the request context.
type ContextKey string

const (
	UserContextKey ContextKey = "user"
)

// bearerToken extracts the token from the Authorization header, or ""
// when absent or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// AuthMiddleware rejects requests without a valid access token and puts
// the authenticated user into the request context.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	jwtService := utils.NewJWTService(cfg.JWTSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				utils.WriteUnauthorizedResponse(w, "Missing or malformed authorization header")
				return
			}

			user, err := jwtService.ExtractUserFromToken(tokenString)
			if err != nil {
				if cfg.Debug {
					fmt.Printf("[warn] auth: token rejected for %s: %v\n", r.URL.Path, err)
				}
				utils.WriteUnauthorizedResponse(w, "Invalid token")
				return
			}

			noteAuthenticatedUser(r.Context(), user.Email)
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present
// but never rejects the request. Used on read routes that may fall back
// to the public single-tenant scope.
func OptionalAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	jwtService := utils.NewJWTService(cfg.JWTSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			if user, err := jwtService.ExtractUserFromToken(tokenString); err == nil {
				noteAuthenticatedUser(r.Context(), user.Email)
				ctx := context.WithValue(r.Context(), UserContextKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext returns the authenticated user, if any.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// RequireUser returns the authenticated user or an error.
func RequireUser(ctx context.Context) (*models.User, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not authenticated")
	}
	return user, nil
}
