package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// JourneyRepository handles database operations for journeys
type JourneyRepository struct {
	db *pgxpool.Pool
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db *pgxpool.Pool) *JourneyRepository {
	return &JourneyRepository{db: db}
}

const journeyColumns = `id, created_date, location_id_from, location_id_to,
		max_passengers, date_time, driver_id`

// Create inserts a journey and populates its id. Location and driver are
// stored as id handles; a dangling reference surfaces as NotFound via the
// foreign keys.
func (r *JourneyRepository) Create(ctx context.Context, journey *models.Journey) error {
	query := `
		INSERT INTO journey
			(created_date, location_id_from, location_id_to, max_passengers, date_time, driver_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		journey.CreatedDate, journey.LocationFrom.ID, journey.LocationTo.ID,
		journey.MaxPassengers, journey.DateTime, journey.Driver.ID,
	).Scan(&journey.ID)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: journey reference", domainErr)
		}
		return fmt.Errorf("failed to create journey: %w", err)
	}
	return nil
}

// GetByID retrieves a journey by id
func (r *JourneyRepository) GetByID(ctx context.Context, id int64) (*models.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journey WHERE id = $1`
	journey, err := scanJourney(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: journey id %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get journey: %w", err)
	}
	return journey, nil
}

// Update persists the mutable state of a journey
func (r *JourneyRepository) Update(ctx context.Context, journey *models.Journey) error {
	query := `
		UPDATE journey
		SET location_id_from = $1, location_id_to = $2, max_passengers = $3, date_time = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(ctx, query,
		journey.LocationFrom.ID, journey.LocationTo.ID,
		journey.MaxPassengers, journey.DateTime, journey.ID,
	)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: journey reference", domainErr)
		}
		return fmt.Errorf("failed to update journey: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: journey id %d", apperr.ErrNotFound, journey.ID)
	}
	return nil
}

// Delete removes a journey by id
func (r *JourneyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM journey WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete journey: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: journey id %d", apperr.ErrNotFound, id)
	}
	return nil
}

// Search finds journeys between two locations with a departure inside the
// inclusive datetime range.
func (r *JourneyRepository) Search(ctx context.Context, fromID, toID int64, from, to time.Time) ([]models.Journey, error) {
	query := `
		SELECT ` + journeyColumns + `
		FROM journey
		WHERE location_id_from = $1 AND location_id_to = $2
		  AND date_time >= $3 AND date_time <= $4
		ORDER BY date_time
	`
	return r.queryJourneys(ctx, query, fromID, toID, from, to)
}

// ListByDriver retrieves the journeys offered by a driver
func (r *JourneyRepository) ListByDriver(ctx context.Context, driverID int64) ([]models.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journey WHERE driver_id = $1 ORDER BY date_time`
	return r.queryJourneys(ctx, query, driverID)
}

// ListByPassenger retrieves the journeys a passenger is enrolled in
func (r *JourneyRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]models.Journey, error) {
	query := `
		SELECT j.id, j.created_date, j.location_id_from, j.location_id_to,
		       j.max_passengers, j.date_time, j.driver_id
		FROM journey j
		JOIN passenger_journey pj ON pj.journey_id = j.id
		WHERE pj.passenger_id = $1
		ORDER BY j.date_time
	`
	return r.queryJourneys(ctx, query, passengerID)
}

// ListPassengers retrieves the passengers enrolled in a journey
func (r *JourneyRepository) ListPassengers(ctx context.Context, journeyID int64) ([]models.Passenger, error) {
	query := `
		SELECT p.id
		FROM passenger p
		JOIN passenger_journey pj ON pj.passenger_id = p.id
		WHERE pj.journey_id = $1
		ORDER BY p.id
	`
	rows, err := r.db.Query(ctx, query, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list passengers: %w", err)
	}
	defer rows.Close()

	var passengers []models.Passenger
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.ID); err != nil {
			return nil, fmt.Errorf("failed to scan passenger: %w", err)
		}
		p.PlatformUser = models.Ref{ID: p.ID}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *JourneyRepository) queryJourneys(ctx context.Context, query string, args ...any) ([]models.Journey, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journeys: %w", err)
	}
	defer rows.Close()

	var journeys []models.Journey
	for rows.Next() {
		journey, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journey: %w", err)
		}
		journeys = append(journeys, *journey)
	}
	return journeys, rows.Err()
}

func scanJourney(row pgx.Row) (*models.Journey, error) {
	var journey models.Journey
	var locFrom, locTo, driverID int64
	err := row.Scan(
		&journey.ID, &journey.CreatedDate, &locFrom, &locTo,
		&journey.MaxPassengers, &journey.DateTime, &driverID,
	)
	if err != nil {
		return nil, err
	}
	journey.LocationFrom = models.Ref{ID: locFrom}
	journey.LocationTo = models.Ref{ID: locTo}
	journey.Driver = models.Ref{ID: driverID}
	return &journey, nil
}
