package services

import (
	"context"
	"fmt"
	"time"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	nextID  int64
	users   map[int64]models.PlatformUser
	updates int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]models.PlatformUser)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.PlatformUser) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %s", apperr.ErrConflict, user.Email)
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.PlatformUser, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user id %d", apperr.ErrNotFound, id)
	}
	return &u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.PlatformUser, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: email %s", apperr.ErrNotFound, email)
}

func (f *fakeUserStore) GetByConfirmationToken(_ context.Context, token string) (*models.PlatformUser, error) {
	for _, u := range f.users {
		if u.ConfirmationToken != "" && u.ConfirmationToken == token {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: confirmation token", apperr.ErrNotFound)
}

func (f *fakeUserStore) Update(_ context.Context, user *models.PlatformUser) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("%w: user id %d", apperr.ErrNotFound, user.ID)
	}
	f.users[user.ID] = *user
	f.updates++
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("%w: user id %d", apperr.ErrNotFound, id)
	}
	delete(f.users, id)
	return nil
}

type fakeDriverStore struct {
	drivers map[int64]models.Driver
	creates int
	deletes int
}

func newFakeDriverStore() *fakeDriverStore {
	return &fakeDriverStore{drivers: make(map[int64]models.Driver)}
}

func (f *fakeDriverStore) Create(_ context.Context, driver *models.Driver) error {
	if _, ok := f.drivers[driver.ID]; ok {
		return fmt.Errorf("%w: driver id %d", apperr.ErrConflict, driver.ID)
	}
	f.drivers[driver.ID] = *driver
	f.creates++
	return nil
}

func (f *fakeDriverStore) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return nil, fmt.Errorf("%w: driver id %d", apperr.ErrNotFound, id)
	}
	return &d, nil
}

func (f *fakeDriverStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.drivers[id]; !ok {
		return fmt.Errorf("%w: driver id %d", apperr.ErrNotFound, id)
	}
	delete(f.drivers, id)
	f.deletes++
	return nil
}

type fakePassengerStore struct {
	passengers map[int64]models.Passenger
	creates    int
}

func newFakePassengerStore() *fakePassengerStore {
	return &fakePassengerStore{passengers: make(map[int64]models.Passenger)}
}

func (f *fakePassengerStore) Create(_ context.Context, passenger *models.Passenger) error {
	if _, ok := f.passengers[passenger.ID]; ok {
		return fmt.Errorf("%w: passenger id %d", apperr.ErrConflict, passenger.ID)
	}
	f.passengers[passenger.ID] = *passenger
	f.creates++
	return nil
}

func (f *fakePassengerStore) GetByID(_ context.Context, id int64) (*models.Passenger, error) {
	p, ok := f.passengers[id]
	if !ok {
		return nil, fmt.Errorf("%w: passenger id %d", apperr.ErrNotFound, id)
	}
	return &p, nil
}

func (f *fakePassengerStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.passengers[id]; !ok {
		return fmt.Errorf("%w: passenger id %d", apperr.ErrNotFound, id)
	}
	delete(f.passengers, id)
	return nil
}

type fakeJourneyStore struct {
	nextID     int64
	journeys   map[int64]models.Journey
	passengers map[int64][]models.Passenger
	updates    int
}

func newFakeJourneyStore() *fakeJourneyStore {
	return &fakeJourneyStore{
		journeys:   make(map[int64]models.Journey),
		passengers: make(map[int64][]models.Passenger),
	}
}

func (f *fakeJourneyStore) Create(_ context.Context, journey *models.Journey) error {
	f.nextID++
	journey.ID = f.nextID
	f.journeys[journey.ID] = *journey
	return nil
}

func (f *fakeJourneyStore) GetByID(_ context.Context, id int64) (*models.Journey, error) {
	j, ok := f.journeys[id]
	if !ok {
		return nil, fmt.Errorf("%w: journey id %d", apperr.ErrNotFound, id)
	}
	return &j, nil
}

func (f *fakeJourneyStore) Update(_ context.Context, journey *models.Journey) error {
	if _, ok := f.journeys[journey.ID]; !ok {
		return fmt.Errorf("%w: journey id %d", apperr.ErrNotFound, journey.ID)
	}
	f.journeys[journey.ID] = *journey
	f.updates++
	return nil
}

func (f *fakeJourneyStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.journeys[id]; !ok {
		return fmt.Errorf("%w: journey id %d", apperr.ErrNotFound, id)
	}
	delete(f.journeys, id)
	delete(f.passengers, id)
	return nil
}

func (f *fakeJourneyStore) Search(_ context.Context, fromID, toID int64, from, to time.Time) ([]models.Journey, error) {
	var result []models.Journey
	for _, j := range f.journeys {
		if j.LocationFrom.ID != fromID || j.LocationTo.ID != toID {
			continue
		}
		if j.DateTime.Before(from) || j.DateTime.After(to) {
			continue
		}
		result = append(result, j)
	}
	return result, nil
}

func (f *fakeJourneyStore) ListByDriver(_ context.Context, driverID int64) ([]models.Journey, error) {
	var result []models.Journey
	for _, j := range f.journeys {
		if j.Driver.ID == driverID {
			result = append(result, j)
		}
	}
	return result, nil
}

func (f *fakeJourneyStore) ListByPassenger(_ context.Context, passengerID int64) ([]models.Journey, error) {
	var result []models.Journey
	for journeyID, passengers := range f.passengers {
		for _, p := range passengers {
			if p.ID == passengerID {
				result = append(result, f.journeys[journeyID])
			}
		}
	}
	return result, nil
}

func (f *fakeJourneyStore) ListPassengers(_ context.Context, journeyID int64) ([]models.Passenger, error) {
	return f.passengers[journeyID], nil
}

// fakePassengerJourneyStore shares the journey store's enrolment state so
// counts and passenger lists stay consistent.
type fakePassengerJourneyStore struct {
	journeys *fakeJourneyStore
}

func (f *fakePassengerJourneyStore) Create(_ context.Context, journeyID, passengerID int64) error {
	for _, p := range f.journeys.passengers[journeyID] {
		if p.ID == passengerID {
			return fmt.Errorf("%w: passenger %d on journey %d", apperr.ErrConflict, passengerID, journeyID)
		}
	}
	f.journeys.passengers[journeyID] = append(f.journeys.passengers[journeyID],
		models.Passenger{ID: passengerID, PlatformUser: models.Ref{ID: passengerID}})
	return nil
}

func (f *fakePassengerJourneyStore) DeleteByJourneyAndPassenger(_ context.Context, journeyID, passengerID int64) error {
	passengers := f.journeys.passengers[journeyID]
	for i, p := range passengers {
		if p.ID == passengerID {
			f.journeys.passengers[journeyID] = append(passengers[:i], passengers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: passenger %d on journey %d", apperr.ErrNotFound, passengerID, journeyID)
}

func (f *fakePassengerJourneyStore) CountByJourney(_ context.Context, journeyID int64) (int, error) {
	return len(f.journeys.passengers[journeyID]), nil
}

type fakeLocationStore struct {
	locations map[int64]models.Location
}

func (f *fakeLocationStore) GetByID(_ context.Context, id int64) (*models.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, fmt.Errorf("%w: location id %d", apperr.ErrNotFound, id)
	}
	return &l, nil
}

func (f *fakeLocationStore) List(_ context.Context) ([]models.Location, error) {
	result := make([]models.Location, 0, len(f.locations))
	for _, l := range f.locations {
		result = append(result, l)
	}
	return result, nil
}

type fakeNotifier struct {
	events []string
	users  [][]int64
}

func (f *fakeNotifier) NotifyJourneyEvent(eventType string, journeyID int64, userIDs []int64) {
	f.events = append(f.events, eventType)
	f.users = append(f.users, userIDs)
}
