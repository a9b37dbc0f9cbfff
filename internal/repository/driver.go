package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// DriverRepository handles database operations for drivers
type DriverRepository struct {
	db *pgxpool.Pool
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{db: db}
}

// Create inserts a driver. The id is the owning user's id, so a duplicate
// insert for the same user surfaces as Conflict and a missing user as
// NotFound via the foreign key.
func (r *DriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	query := `INSERT INTO driver (id, license_number) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, driver.ID, driver.LicenseNumber)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: driver id %d", domainErr, driver.ID)
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

// GetByID retrieves a driver by id
func (r *DriverRepository) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	query := `SELECT id, license_number FROM driver WHERE id = $1`
	var driver models.Driver
	err := r.db.QueryRow(ctx, query, id).Scan(&driver.ID, &driver.LicenseNumber)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: driver id %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	driver.PlatformUser = models.Ref{ID: driver.ID}
	return &driver, nil
}

// Delete removes a driver by id
func (r *DriverRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM driver WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: driver id %d", apperr.ErrNotFound, id)
	}
	return nil
}
