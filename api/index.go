// Package handler is the Vercel function entrypoint. All API endpoints
// live behind one Chi router (monolithic routing) so the deployment is a
// single function.
package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justin362/distribution-matrix-v2/pkg/config"
	"github.com/justin362/distribution-matrix-v2/pkg/handlers"
	"github.com/justin362/distribution-matrix-v2/pkg/identity"
	"github.com/justin362/distribution-matrix-v2/pkg/kv"
	customMiddleware "github.com/justin362/distribution-matrix-v2/pkg/middleware"
	"github.com/justin362/distribution-matrix-v2/pkg/repository"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// The KV store survives warm invocations; it is created once per cold
// start.
var (
	storeOnce sync.Once
	store     kv.Store
	storeErr  error
)

func getStore(cfg *config.Config) (kv.Store, error) {
	storeOnce.Do(func() {
		store, storeErr = kv.NewStore(kv.Config{
			PostgresDSN: cfg.PostgresDSN,
			SupabaseURL: cfg.SupabaseURL,
			SupabaseKey: cfg.SupabaseKey,
			RedisURL:    cfg.RedisURL,
			Debug:       cfg.Debug,
		})
	})
	return store, storeErr
}

// Handler is the Vercel function entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetCached()

	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	kvStore, err := getStore(cfg)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Storage error: "+err.Error())
		return
	}

	router := chi.NewRouter()
	setupMiddleware(router, cfg)
	setupRoutes(router, cfg, kvStore)

	router.ServeHTTP(w, r)
}

func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	router.Use(customMiddleware.CORS(cfg))

	// Vercel functions have a hard time limit; leave a few seconds of
	// buffer.
	router.Use(middleware.Timeout(25 * time.Second))

	router.Use(middleware.Compress(5))

	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

func setupRoutes(router *chi.Mux, cfg *config.Config, kvStore kv.Store) {
	repo := repository.New(kvStore)
	ident := identity.NewService(kvStore)
	h := handlers.New(cfg, repo, ident)

	router.Get("/health", h.Health)
	router.Get("/", h.Health)

	// Public auth routes
	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.OptionalAuthMiddleware(cfg))
			r.Get("/session", h.Session)
			r.Post("/logout", h.Logout)
		})
	})

	// Reads: authenticated users hit their active organization; with
	// PUBLIC_READ enabled, anonymous requests read the legacy scope.
	router.Group(func(r chi.Router) {
		r.Use(customMiddleware.OptionalAuthMiddleware(cfg))

		r.Get("/clients", h.ListClients)
		r.Get("/retailers", h.ListRetailers)
		r.Get("/distributions", h.ListDistributions)
		r.Get("/activity", h.ListActivity)
		r.Get("/analytics", h.Analytics)
	})

	// Everything else requires a valid access token.
	router.Group(func(r chi.Router) {
		r.Use(customMiddleware.AuthMiddleware(cfg))

		r.Post("/clients", h.CreateClient)
		r.Put("/clients/{id}", h.UpdateClient)
		r.Delete("/clients/{id}", h.DeleteClient)

		r.Post("/retailers", h.CreateRetailer)
		r.Put("/retailers/{id}", h.UpdateRetailer)
		r.Delete("/retailers/{id}", h.DeleteRetailer)

		r.Post("/distributions", h.UpsertDistribution)

		r.Post("/analytics/snapshot", h.Snapshot)
		r.Post("/clear-all-data", h.ClearAllData)

		r.Route("/organizations", func(r chi.Router) {
			r.Get("/", h.ListOrganizations)
			r.Post("/", h.CreateOrganization)
			r.Post("/switch", h.SwitchOrganization)
			r.Post("/accept-invite", h.AcceptInvite)
			r.Get("/{orgId}/members", h.ListMembers)
			r.Put("/{orgId}/members/{userId}", h.UpdateMemberRole)
			r.Delete("/{orgId}/members/{userId}", h.RemoveMember)
			r.Post("/{orgId}/invite", h.InviteMember)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/profile", h.UserProfile)
			r.Get("/invites", h.UserInvites)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
	})
}
