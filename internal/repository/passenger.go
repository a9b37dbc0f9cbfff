package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// PassengerRepository handles database operations for passengers
type PassengerRepository struct {
	db *pgxpool.Pool
}

// NewPassengerRepository creates a new passenger repository
func NewPassengerRepository(db *pgxpool.Pool) *PassengerRepository {
	return &PassengerRepository{db: db}
}

// Create inserts a passenger. The id is the owning user's id.
func (r *PassengerRepository) Create(ctx context.Context, passenger *models.Passenger) error {
	query := `INSERT INTO passenger (id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, passenger.ID)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: passenger id %d", domainErr, passenger.ID)
		}
		return fmt.Errorf("failed to create passenger: %w", err)
	}
	return nil
}

// GetByID retrieves a passenger by id
func (r *PassengerRepository) GetByID(ctx context.Context, id int64) (*models.Passenger, error) {
	query := `SELECT id FROM passenger WHERE id = $1`
	var passenger models.Passenger
	err := r.db.QueryRow(ctx, query, id).Scan(&passenger.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: passenger id %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get passenger: %w", err)
	}
	passenger.PlatformUser = models.Ref{ID: passenger.ID}
	return &passenger, nil
}

// Delete removes a passenger by id
func (r *PassengerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM passenger WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete passenger: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: passenger id %d", apperr.ErrNotFound, id)
	}
	return nil
}
