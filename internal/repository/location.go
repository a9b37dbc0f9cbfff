package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// LocationRepository reads the static location reference data
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

// GetByID resolves a location reference handle
func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	query := `SELECT id, name, latitude, longitude FROM location WHERE id = $1`
	var loc models.Location
	err := r.db.QueryRow(ctx, query, id).Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: location id %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &loc, nil
}

// List returns all locations
func (r *LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, latitude, longitude FROM location ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
