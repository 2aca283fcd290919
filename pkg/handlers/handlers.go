// Package handlers implements the HTTP surface: request decoding, scope
// and role resolution, and the wire shapes the frontend expects. All
// business rules live in pkg/repository and pkg/identity.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/justin362/distribution-matrix-v2/pkg/config"
	"github.com/justin362/distribution-matrix-v2/pkg/identity"
	"github.com/justin362/distribution-matrix-v2/pkg/repository"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// Handlers bundles the dependencies every route needs.
type Handlers struct {
	cfg      *config.Config
	repo     *repository.Repository
	identity *identity.Service
	jwt      *utils.JWTService
}

// New wires the handler set.
func New(cfg *config.Config, repo *repository.Repository, ident *identity.Service) *Handlers {
	return &Handlers{
		cfg:      cfg,
		repo:     repo,
		identity: ident,
		jwt:      utils.NewJWTService(cfg.JWTSecret),
	}
}

// writeRepoError maps repository sentinels onto HTTP statuses. The
// "repository: " prefix is internal and stripped from the wire message.
func writeRepoError(w http.ResponseWriter, err error) {
	message := strings.TrimPrefix(err.Error(), "repository: ")

	switch {
	case errors.Is(err, repository.ErrValidation):
		utils.WriteBadRequestResponse(w, message)
	case errors.Is(err, repository.ErrNotFound):
		utils.WriteNotFoundResponse(w, message)
	case errors.Is(err, repository.ErrNotMember):
		utils.WriteForbiddenResponse(w, message)
	case errors.Is(err, repository.ErrLastAdmin):
		utils.WriteBadRequestResponse(w, message)
	case errors.Is(err, repository.ErrInviteInvalid):
		utils.WriteBadRequestResponse(w, message)
	default:
		utils.WriteInternalServerErrorResponse(w, "Internal server error")
	}
}
