package services

import (
	"context"
	"fmt"
	"time"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/distance"
	"carpool-backend/internal/models"
	"carpool-backend/internal/patch"
	"carpool-backend/internal/security"
)

// JourneyNotifier fans journey events out to connected participants.
type JourneyNotifier interface {
	NotifyJourneyEvent(eventType string, journeyID int64, userIDs []int64)
}

// RouteCalculator is the external distance/geocoding collaborator.
type RouteCalculator interface {
	Distance(ctx context.Context, from, to distance.Point) (*distance.Result, error)
}

// JourneyService handles journey use cases
type JourneyService struct {
	journeys          JourneyStore
	passengerJourneys PassengerJourneyStore
	drivers           DriverStore
	passengers        PassengerStore
	locations         LocationStore
	routes            RouteCalculator
	events            JourneyNotifier
}

// NewJourneyService creates a new journey service. events may be nil when
// no hub is attached.
func NewJourneyService(
	journeys JourneyStore,
	passengerJourneys PassengerJourneyStore,
	drivers DriverStore,
	passengers PassengerStore,
	locations LocationStore,
	routes RouteCalculator,
	events JourneyNotifier,
) *JourneyService {
	return &JourneyService{
		journeys:          journeys,
		passengerJourneys: passengerJourneys,
		drivers:           drivers,
		passengers:        passengers,
		locations:         locations,
		routes:            routes,
		events:            events,
	}
}

// CreateJourneyRequest represents a journey offer
type CreateJourneyRequest struct {
	LocationIDFrom int64     `json:"locationIdFrom"`
	LocationIDTo   int64     `json:"locationIdTo"`
	MaxPassengers  int       `json:"maxPassengers"`
	DateTime       time.Time `json:"dateTime"`
	DriverID       int64     `json:"driverId"`
}

// SearchJourneysCriteria bounds are inclusive
type SearchJourneysCriteria struct {
	LocationIDFrom int64
	LocationIDTo   int64
	DateTimeFrom   time.Time
	DateTimeTo     time.Time
}

// CalculateRouteRequest is a structured two-point query for the external
// distance service
type CalculateRouteRequest struct {
	CityFrom    string `json:"cityFrom"`
	CountryFrom string `json:"countryFrom"`
	CityTo      string `json:"cityTo"`
	CountryTo   string `json:"countryTo"`
}

// CreateJourney offers a new ride. The caller must be the owning driver or
// an admin; suspended accounts cannot offer journeys.
func (s *JourneyService) CreateJourney(ctx context.Context, p security.Principal, req CreateJourneyRequest) (models.JourneyView, error) {
	if p.Status == models.StatusSuspended {
		return models.JourneyView{}, fmt.Errorf("%w: account is suspended", apperr.ErrNotAuthorized)
	}
	driverID := p.ResolveID(req.DriverID)
	if err := p.CanActOn(driverID); err != nil {
		return models.JourneyView{}, err
	}
	if req.MaxPassengers <= 0 {
		return models.JourneyView{}, fmt.Errorf("%w: maxPassengers must be positive", apperr.ErrValidation)
	}
	if req.DateTime.IsZero() {
		return models.JourneyView{}, fmt.Errorf("%w: dateTime is required", apperr.ErrValidation)
	}

	// Resolve the reference handles up front so a dangling id fails before
	// anything is written.
	if _, err := s.locations.GetByID(ctx, req.LocationIDFrom); err != nil {
		return models.JourneyView{}, err
	}
	if _, err := s.locations.GetByID(ctx, req.LocationIDTo); err != nil {
		return models.JourneyView{}, err
	}
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return models.JourneyView{}, err
	}

	journey := &models.Journey{
		CreatedDate:   time.Now(),
		LocationFrom:  models.Ref{ID: req.LocationIDFrom},
		LocationTo:    models.Ref{ID: req.LocationIDTo},
		MaxPassengers: req.MaxPassengers,
		DateTime:      req.DateTime,
		Driver:        models.Ref{ID: driverID},
	}
	if err := s.journeys.Create(ctx, journey); err != nil {
		return models.JourneyView{}, err
	}
	return s.buildView(ctx, journey)
}

// GetJourney retrieves a journey. Journeys are readable by any
// authenticated user so passengers can find rides.
func (s *JourneyService) GetJourney(ctx context.Context, id int64) (models.JourneyView, error) {
	journey, err := s.journeys.GetByID(ctx, id)
	if err != nil {
		return models.JourneyView{}, err
	}
	return s.buildView(ctx, journey)
}

// SearchJourneys finds journeys by route and inclusive datetime range.
// An empty result is an error, signalling "no journeys match".
func (s *JourneyService) SearchJourneys(ctx context.Context, criteria SearchJourneysCriteria) ([]models.JourneyView, error) {
	result, err := s.journeys.Search(ctx,
		criteria.LocationIDFrom, criteria.LocationIDTo,
		criteria.DateTimeFrom, criteria.DateTimeTo,
	)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no journeys found for this route", apperr.ErrNotFound)
	}
	return s.buildViews(ctx, result)
}

// JourneysByDriver lists the journeys offered by a driver
func (s *JourneyService) JourneysByDriver(ctx context.Context, driverID int64) ([]models.JourneyView, error) {
	result, err := s.journeys.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no journeys found for driver id %d", apperr.ErrNotFound, driverID)
	}
	return s.buildViews(ctx, result)
}

// JourneysByPassenger lists the journeys a passenger is enrolled in
func (s *JourneyService) JourneysByPassenger(ctx context.Context, passengerID int64) ([]models.JourneyView, error) {
	result, err := s.journeys.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no journeys found for passenger id %d", apperr.ErrNotFound, passengerID)
	}
	return s.buildViews(ctx, result)
}

// PatchJourney applies a json-patch document to the journey's wire
// representation. Only the owning driver or an admin may patch.
func (s *JourneyService) PatchJourney(ctx context.Context, p security.Principal, id int64, doc []byte) (models.JourneyView, error) {
	journey, err := s.journeys.GetByID(ctx, id)
	if err != nil {
		return models.JourneyView{}, err
	}
	if err := p.CanActOn(journey.Driver.ID); err != nil {
		return models.JourneyView{}, err
	}

	view, err := s.buildView(ctx, journey)
	if err != nil {
		return models.JourneyView{}, err
	}

	var patched models.JourneyView
	if err := patch.Apply(view, doc, &patched); err != nil {
		return models.JourneyView{}, fmt.Errorf("it was not possible to patch journey id %d: %w", id, err)
	}
	if patched.MaxPassengers <= 0 {
		return models.JourneyView{}, fmt.Errorf("it was not possible to patch journey id %d: %w: maxPassengers must be positive", id, apperr.ErrPatch)
	}

	journey.ApplyView(patched)
	if _, err := s.locations.GetByID(ctx, journey.LocationFrom.ID); err != nil {
		return models.JourneyView{}, fmt.Errorf("it was not possible to patch journey id %d: %w", id, err)
	}
	if _, err := s.locations.GetByID(ctx, journey.LocationTo.ID); err != nil {
		return models.JourneyView{}, fmt.Errorf("it was not possible to patch journey id %d: %w", id, err)
	}

	if err := s.journeys.Update(ctx, journey); err != nil {
		return models.JourneyView{}, err
	}

	s.notify(ctx, "journey_updated", journey)
	return s.buildView(ctx, journey)
}

// DeleteJourney cancels a journey. Only the owning driver or an admin may
// delete; enrolled passengers are notified.
func (s *JourneyService) DeleteJourney(ctx context.Context, p security.Principal, id int64) error {
	journey, err := s.journeys.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.CanActOn(journey.Driver.ID); err != nil {
		return err
	}

	// Participants must be collected before the cascade removes the
	// association rows.
	participants := s.participants(ctx, journey)
	if err := s.journeys.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		s.events.NotifyJourneyEvent("journey_cancelled", id, participants)
	}
	return nil
}

// EnrolPassenger adds a passenger to a journey, bounded by maxPassengers.
// Passengers enrol themselves; admins may enrol anyone. Suspended accounts
// cannot apply for journeys.
func (s *JourneyService) EnrolPassenger(ctx context.Context, p security.Principal, journeyID, passengerID int64) error {
	if p.Status == models.StatusSuspended {
		return fmt.Errorf("%w: account is suspended", apperr.ErrNotAuthorized)
	}
	passengerID = p.ResolveID(passengerID)
	if err := p.CanActOn(passengerID); err != nil {
		return err
	}
	if _, err := s.passengers.GetByID(ctx, passengerID); err != nil {
		return err
	}

	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return err
	}
	count, err := s.passengerJourneys.CountByJourney(ctx, journeyID)
	if err != nil {
		return err
	}
	if count >= journey.MaxPassengers {
		return fmt.Errorf("%w: journey id %d is full", apperr.ErrConflict, journeyID)
	}

	if err := s.passengerJourneys.Create(ctx, journeyID, passengerID); err != nil {
		return err
	}
	s.notify(ctx, "passenger_joined", journey)
	return nil
}

// DropPassenger removes a passenger from a journey. Allowed for the
// passenger themself, the journey's driver, or an admin.
func (s *JourneyService) DropPassenger(ctx context.Context, p security.Principal, journeyID, passengerID int64) error {
	passengerID = p.ResolveID(passengerID)
	journey, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		return err
	}
	if err := p.CanActOn(passengerID); err != nil {
		if p.ID != journey.Driver.ID {
			return err
		}
	}

	if err := s.passengerJourneys.DeleteByJourneyAndPassenger(ctx, journeyID, passengerID); err != nil {
		return err
	}
	s.notify(ctx, "passenger_left", journey)
	return nil
}

// ListLocations returns the seeded location reference data clients pick
// journey endpoints from.
func (s *JourneyService) ListLocations(ctx context.Context) ([]models.LocationView, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.LocationView, 0, len(locations))
	for i := range locations {
		views = append(views, locations[i].View())
	}
	return views, nil
}

// CalculateRoute queries the external distance service for a two-point
// route.
func (s *JourneyService) CalculateRoute(ctx context.Context, req CalculateRouteRequest) (*distance.Result, error) {
	if req.CityFrom == "" || req.CityTo == "" {
		return nil, fmt.Errorf("%w: cityFrom and cityTo are required", apperr.ErrValidation)
	}
	from := distance.Point{City: req.CityFrom, Country: req.CountryFrom}
	to := distance.Point{City: req.CityTo, Country: req.CountryTo}
	return s.routes.Distance(ctx, from, to)
}

func (s *JourneyService) buildView(ctx context.Context, journey *models.Journey) (models.JourneyView, error) {
	from, err := s.locations.GetByID(ctx, journey.LocationFrom.ID)
	if err != nil {
		return models.JourneyView{}, err
	}
	to, err := s.locations.GetByID(ctx, journey.LocationTo.ID)
	if err != nil {
		return models.JourneyView{}, err
	}
	driver, err := s.drivers.GetByID(ctx, journey.Driver.ID)
	if err != nil {
		return models.JourneyView{}, err
	}
	passengers, err := s.journeys.ListPassengers(ctx, journey.ID)
	if err != nil {
		return models.JourneyView{}, err
	}
	return journey.View(*from, *to, *driver, passengers), nil
}

func (s *JourneyService) buildViews(ctx context.Context, journeys []models.Journey) ([]models.JourneyView, error) {
	views := make([]models.JourneyView, 0, len(journeys))
	for i := range journeys {
		view, err := s.buildView(ctx, &journeys[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *JourneyService) participants(ctx context.Context, journey *models.Journey) []int64 {
	ids := []int64{journey.Driver.ID}
	passengers, err := s.journeys.ListPassengers(ctx, journey.ID)
	if err != nil {
		return ids
	}
	for _, p := range passengers {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *JourneyService) notify(ctx context.Context, eventType string, journey *models.Journey) {
	if s.events == nil {
		return
	}
	s.events.NotifyJourneyEvent(eventType, journey.ID, s.participants(ctx, journey))
}
