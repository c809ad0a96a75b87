// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medbazaar/pharmacy-catalog/internal/catalog"
	"github.com/medbazaar/pharmacy-catalog/internal/obs"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// WriteJSON writes a JSON payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps an engine error onto the response taxonomy. Store
// failures become an opaque 500; the cause goes to the log, never to the
// caller.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidID):
		WriteJSONError(w, http.StatusBadRequest, "invalid_id", "malformed id")
	case errors.Is(err, catalog.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	default:
		obs.Logger.Error("catalog_query_failed",
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
	}
}
