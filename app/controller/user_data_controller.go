package controller

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// UserDataStore is the per-user key maintenance surface of the namespaced store
type UserDataStore interface {
	ListKeys(ctx context.Context, userID string) ([]string, error)
	ClearAll(ctx context.Context, userID string) error
}

// UserDataController exposes diagnostics and account-deletion cleanup
type UserDataController struct {
	storage UserDataStore
}

// NewUserDataController creates a new UserDataController
func NewUserDataController(storage UserDataStore) *UserDataController {
	return &UserDataController{storage: storage}
}

// ListKeys handles GET /users/{userId}/keys
func (c *UserDataController) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := c.storage.ListKeys(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, "ListUserKeys", err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

// ClearAll handles DELETE /users/{userId}/data
func (c *UserDataController) ClearAll(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	log.Printf("📥 ClearUserData: user=%s", userID)

	if err := c.storage.ClearAll(r.Context(), userID); err != nil {
		writeError(w, "ClearUserData", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
