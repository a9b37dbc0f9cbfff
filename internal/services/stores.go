package services

import (
	"context"
	"time"

	"carpool-backend/internal/models"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests use in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.PlatformUser) error
	GetByID(ctx context.Context, id int64) (*models.PlatformUser, error)
	GetByEmail(ctx context.Context, email string) (*models.PlatformUser, error)
	GetByConfirmationToken(ctx context.Context, token string) (*models.PlatformUser, error)
	Update(ctx context.Context, user *models.PlatformUser) error
	Delete(ctx context.Context, id int64) error
}

type DriverStore interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	Delete(ctx context.Context, id int64) error
}

type PassengerStore interface {
	Create(ctx context.Context, passenger *models.Passenger) error
	GetByID(ctx context.Context, id int64) (*models.Passenger, error)
	Delete(ctx context.Context, id int64) error
}

type JourneyStore interface {
	Create(ctx context.Context, journey *models.Journey) error
	GetByID(ctx context.Context, id int64) (*models.Journey, error)
	Update(ctx context.Context, journey *models.Journey) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, fromID, toID int64, from, to time.Time) ([]models.Journey, error)
	ListByDriver(ctx context.Context, driverID int64) ([]models.Journey, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]models.Journey, error)
	ListPassengers(ctx context.Context, journeyID int64) ([]models.Passenger, error)
}

type PassengerJourneyStore interface {
	Create(ctx context.Context, journeyID, passengerID int64) error
	DeleteByJourneyAndPassenger(ctx context.Context, journeyID, passengerID int64) error
	CountByJourney(ctx context.Context, journeyID int64) (int, error)
}

type LocationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *models.DriverDocument) error
	ListByDriver(ctx context.Context, driverID int64) ([]models.DriverDocument, error)
}
