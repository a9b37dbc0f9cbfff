package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"carpool-backend/internal/services"
)

const patchContentType = "application/json-patch+json"

// UserHandler handles platform user, driver and passenger HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	log.Info().Int64("user_id", view.ID).Msg("User created")
	respondJSON(w, http.StatusCreated, view)
}

// ConfirmEmail handles POST /api/v1/users/confirm/{token}
func (h *UserHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	view, err := h.userService.ConfirmEmail(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	log.Info().Int64("user_id", view.ID).Msg("Email confirmed")
	respondJSON(w, http.StatusOK, view)
}

// GetUser handles GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.userService.GetUser(r.Context(), p, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// PatchUser handles PATCH /api/v1/users/{id}
func (h *UserHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	doc, ok := readPatchDocument(w, r)
	if !ok {
		return
	}

	view, err := h.userService.PatchUser(r.Context(), p, id, doc)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), p, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDriver handles POST /api/v1/users/{id}/drivers
func (h *UserHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req services.CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.userService.CreateDriver(r.Context(), p, id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetDriver handles GET /api/v1/users/drivers/{id}
func (h *UserHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.userService.GetDriver(r.Context(), p, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DeleteDriver handles DELETE /api/v1/users/drivers/{id}
func (h *UserHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.userService.DeleteDriver(r.Context(), p, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreatePassenger handles POST /api/v1/users/{id}/passengers
func (h *UserHandler) CreatePassenger(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.userService.CreatePassenger(r.Context(), p, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetPassenger handles GET /api/v1/users/passengers/{id}
func (h *UserHandler) GetPassenger(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.userService.GetPassenger(r.Context(), p, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DeletePassenger handles DELETE /api/v1/users/passengers/{id}
func (h *UserHandler) DeletePassenger(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.userService.DeletePassenger(r.Context(), p, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readPatchDocument enforces the json-patch content type and reads the
// operation array.
func readPatchDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, patchContentType) {
		respondError(w, "Content-Type must be "+patchContentType, http.StatusUnsupportedMediaType)
		return nil, false
	}
	doc, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return doc, true
}
