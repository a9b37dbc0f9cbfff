package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/security"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeDomainError translates a domain error into its fixed external
// status. Unrecognized errors are logged and presented as a generic 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrUnauthorized):
		respondError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrNotAuthorized):
		// Generic body: the denial must not reveal whether the target exists.
		respondError(w, apperr.ErrNotAuthorized.Error(), http.StatusForbidden)
	case errors.Is(err, apperr.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperr.ErrConflict):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, apperr.ErrPatch):
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, apperr.ErrUpstream):
		respondError(w, err.Error(), http.StatusBadGateway)
	default:
		log.Error().Err(err).Msg("Unhandled error")
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}

// idParam parses a numeric path parameter
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperr.ErrValidation, name)
	}
	return id, nil
}

// principal extracts the acting identity; the auth middleware guarantees
// it is present on protected routes.
func principal(w http.ResponseWriter, r *http.Request) (security.Principal, bool) {
	p, ok := security.PrincipalFrom(r.Context())
	if !ok {
		respondError(w, "Authorization required", http.StatusUnauthorized)
		return security.Principal{}, false
	}
	return p, true
}
