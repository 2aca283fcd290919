package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/justin362/distribution-matrix-v2/pkg/identity"
	"github.com/justin362/distribution-matrix-v2/pkg/middleware"
	"github.com/justin362/distribution-matrix-v2/pkg/models"
	"github.com/justin362/distribution-matrix-v2/pkg/repository"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// Signup handles POST /auth/signup: register, seed demo data into the
// legacy scope on an empty deployment, and hand out a token pair.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	user, err := h.identity.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			utils.WriteBadRequestResponse(w, "Email already registered")
			return
		}
		utils.WriteBadRequestResponse(w, trimIdentityPrefix(err))
		return
	}

	// Demo data so a fresh deployment isn't an empty matrix. Best-effort.
	if err := h.repo.SeedSampleData(r.Context(), repository.GlobalScope()); err != nil {
		fmt.Printf("[warn] sample data seeding failed: %v\n", err)
	}

	h.writeAuthResponse(w, user)
}

// Login handles POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	user, err := h.identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			utils.WriteUnauthorizedResponse(w, "Invalid email or password")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Login failed")
		return
	}

	h.writeAuthResponse(w, user)
}

func (h *Handlers) writeAuthResponse(w http.ResponseWriter, user *models.User) {
	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to generate tokens")
		return
	}

	utils.WriteSuccessResponse(w, models.AuthResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// Session handles GET /auth/session: {"user": ...} for a valid token,
// {"user": null} with 401 otherwise.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	tokenUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, map[string]interface{}{"user": nil})
		return
	}

	// The token only carries id and email; the stored account has the name.
	user, err := h.identity.GetUser(r.Context(), tokenUser.ID)
	if err != nil {
		utils.WriteJSONResponse(w, http.StatusUnauthorized, map[string]interface{}{"user": nil})
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{"user": user})
}

// Logout handles POST /auth/logout. Tokens are stateless, so there is
// nothing to revoke server-side; the client drops its copy.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]bool{"success": true})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.repo.Store().HealthCheck(r.Context()); err != nil {
		status = "degraded"
	}
	utils.WriteSuccessResponse(w, map[string]string{"status": status})
}

func trimIdentityPrefix(err error) string {
	const prefix = "identity: "
	msg := err.Error()
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
