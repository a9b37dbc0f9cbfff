package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/apperr"
)

// PassengerJourneyRepository handles the passenger-journey association
type PassengerJourneyRepository struct {
	db *pgxpool.Pool
}

// NewPassengerJourneyRepository creates a new passenger-journey repository
func NewPassengerJourneyRepository(db *pgxpool.Pool) *PassengerJourneyRepository {
	return &PassengerJourneyRepository{db: db}
}

// Create links a passenger to a journey. A duplicate enrolment surfaces as
// Conflict via the unique pair constraint; a missing passenger or journey
// as NotFound via the foreign keys.
func (r *PassengerJourneyRepository) Create(ctx context.Context, journeyID, passengerID int64) error {
	query := `INSERT INTO passenger_journey (journey_id, passenger_id) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, journeyID, passengerID)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: passenger %d on journey %d", domainErr, passengerID, journeyID)
		}
		return fmt.Errorf("failed to enrol passenger: %w", err)
	}
	return nil
}

// DeleteByJourneyAndPassenger removes the association row inside a
// transaction: either the row is gone or the operation fails, no partial
// state.
func (r *PassengerJourneyRepository) DeleteByJourneyAndPassenger(ctx context.Context, journeyID, passengerID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM passenger_journey WHERE journey_id = $1 AND passenger_id = $2`,
		journeyID, passengerID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove passenger: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: passenger %d on journey %d", apperr.ErrNotFound, passengerID, journeyID)
	}

	return tx.Commit(ctx)
}

// CountByJourney returns the number of passengers enrolled in a journey
func (r *PassengerJourneyRepository) CountByJourney(ctx context.Context, journeyID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM passenger_journey WHERE journey_id = $1`, journeyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count passengers: %w", err)
	}
	return count, nil
}
