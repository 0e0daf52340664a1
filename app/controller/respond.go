package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"storefront-core/kvstore"
	"storefront-core/models"
	"storefront-core/repository"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("❌ Error encoding response: %v", err)
	}
}

// writeError maps domain errors to status codes: validation 400, not found 404,
// storage unavailable 503, anything else 500
func writeError(w http.ResponseWriter, op string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warnf("⚠️  %s: Validation failed: %v", op, err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, repository.ErrNotFound):
		log.Printf("🔍 %s: Not found", op)
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, kvstore.ErrStorageUnavailable):
		log.Errorf("❌ %s: Storage unavailable: %v", op, err)
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable, try again"})
	default:
		log.Errorf("❌ %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// decodeBody decodes a JSON request body, replying 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, op string, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		log.Warnf("⚠️  %s: Failed to decode request body: %v", op, err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
