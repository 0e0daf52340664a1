package controller

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/service"
)

// ProfileController handles the session profile and account endpoints
type ProfileController struct {
	profile service.ProfileServiceInterface
}

// NewProfileController creates a new ProfileController
func NewProfileController(profile service.ProfileServiceInterface) *ProfileController {
	return &ProfileController{profile: profile}
}

// GetProfile handles GET /profile
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.profile.Current())
}

// Hydrate handles POST /profile/hydrate
func (c *ProfileController) Hydrate(w http.ResponseWriter, r *http.Request) {
	profile, err := c.profile.Hydrate(r.Context())
	if err != nil {
		writeError(w, "HydrateProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Update handles PATCH /profile
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateProfile: Received %s request to %s", r.Method, r.URL.Path)

	var patch models.ProfilePatch
	if !decodeBody(w, r, "UpdateProfile", &patch) {
		return
	}

	profile, err := c.profile.Update(r.Context(), patch)
	if err != nil {
		writeError(w, "UpdateProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Register handles POST /auth/register
func (c *ProfileController) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, "Register", &req) {
		return
	}

	record, err := c.profile.Register(r.Context(), req)
	if err != nil {
		writeError(w, "Register", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// SignIn handles POST /auth/sign-in
func (c *ProfileController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeBody(w, r, "SignIn", &req) {
		return
	}

	profile, err := c.profile.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, "SignIn", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SignOut handles POST /auth/sign-out
func (c *ProfileController) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := c.profile.SignOut(r.Context()); err != nil {
		writeError(w, "SignOut", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GrantAdmin handles POST /admin/grants
func (c *ProfileController) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.GrantRequest
	if !decodeBody(w, r, "GrantAdmin", &req) {
		return
	}

	record, err := c.profile.GrantAdmin(r.Context(), req.Email)
	if err != nil {
		writeError(w, "GrantAdmin", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ResetPassword handles POST /auth/reset-password
func (c *ProfileController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeBody(w, r, "ResetPassword", &req) {
		return
	}

	if err := c.profile.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		writeError(w, "ResetPassword", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
