package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/services"
)

// JourneyHandler handles journey HTTP requests
type JourneyHandler struct {
	journeyService *services.JourneyService
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(journeyService *services.JourneyService) *JourneyHandler {
	return &JourneyHandler{journeyService: journeyService}
}

// CreateJourney handles POST /api/v1/journeys
func (h *JourneyHandler) CreateJourney(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req services.CreateJourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.journeyService.CreateJourney(r.Context(), p, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	log.Info().Int64("journey_id", view.ID).Int64("driver_id", view.Driver.ID).Msg("Journey created")
	respondJSON(w, http.StatusCreated, view)
}

// GetJourney handles GET /api/v1/journeys/{id}
func (h *JourneyHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.journeyService.GetJourney(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SearchJourneys handles GET /api/v1/journeys/search
func (h *JourneyHandler) SearchJourneys(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseSearchCriteria(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, err := h.journeyService.SearchJourneys(r.Context(), criteria)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// JourneysByDriver handles GET /api/v1/journeys/drivers/{id}
func (h *JourneyHandler) JourneysByDriver(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, err := h.journeyService.JourneysByDriver(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// JourneysByPassenger handles GET /api/v1/journeys/passengers/{id}
func (h *JourneyHandler) JourneysByPassenger(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views, err := h.journeyService.JourneysByPassenger(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// PatchJourney handles PATCH /api/v1/journeys/{id}
func (h *JourneyHandler) PatchJourney(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.journeyService.PatchJourney(r.Context(), p, id, doc)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DeleteJourney handles DELETE /api/v1/journeys/{id}
func (h *JourneyHandler) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.journeyService.DeleteJourney(r.Context(), p, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnrolPassenger handles POST /api/v1/journeys/{id}/passengers
func (h *JourneyHandler) EnrolPassenger(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	journeyID, err := idParam(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Body is optional; passengers enrol themselves unless an admin names
	// someone else.
	var req struct {
		PassengerID int64 `json:"passengerId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.journeyService.EnrolPassenger(r.Context(), p, journeyID, req.PassengerID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DropPassenger handles DELETE /api/v1/journeys/{journeyId}/passengers/{passengerId}
func (h *JourneyHandler) DropPassenger(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	journeyID, err := idParam(r, "journeyId")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	passengerID, err := idParam(r, "passengerId")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.journeyService.DropPassenger(r.Context(), p, journeyID, passengerID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLocations handles GET /api/v1/locations
func (h *JourneyHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	views, err := h.journeyService.ListLocations(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// CalculateRoute handles POST /api/v1/journeys/calculate
func (h *JourneyHandler) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	var req services.CalculateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.journeyService.CalculateRoute(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func parseSearchCriteria(r *http.Request) (services.SearchJourneysCriteria, error) {
	q := r.URL.Query()

	fromID, err := strconv.ParseInt(q.Get("locationIdFrom"), 10, 64)
	if err != nil {
		return services.SearchJourneysCriteria{}, invalidParam("locationIdFrom")
	}
	toID, err := strconv.ParseInt(q.Get("locationIdTo"), 10, 64)
	if err != nil {
		return services.SearchJourneysCriteria{}, invalidParam("locationIdTo")
	}
	dateFrom, err := time.Parse(time.RFC3339, q.Get("dateTimeFrom"))
	if err != nil {
		return services.SearchJourneysCriteria{}, invalidParam("dateTimeFrom")
	}
	dateTo, err := time.Parse(time.RFC3339, q.Get("dateTimeTo"))
	if err != nil {
		return services.SearchJourneysCriteria{}, invalidParam("dateTimeTo")
	}

	return services.SearchJourneysCriteria{
		LocationIDFrom: fromID,
		LocationIDTo:   toID,
		DateTimeFrom:   dateFrom,
		DateTimeTo:     dateTo,
	}, nil
}

func invalidParam(name string) error {
	return fmt.Errorf("%w: invalid %s", apperr.ErrValidation, name)
}
