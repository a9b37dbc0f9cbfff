package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/models"
)

// DocumentRepository handles database operations for driver documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create records an uploaded licence document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.DriverDocument) error {
	query := `
		INSERT INTO driver_document (id, driver_id, s3_url, content_type, created_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.Driver.ID, doc.S3URL, doc.ContentType, doc.CreatedDate)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: driver id %d", domainErr, doc.Driver.ID)
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// ListByDriver retrieves the documents uploaded for a driver
func (r *DocumentRepository) ListByDriver(ctx context.Context, driverID int64) ([]models.DriverDocument, error) {
	query := `
		SELECT id, driver_id, s3_url, content_type, created_date
		FROM driver_document
		WHERE driver_id = $1
		ORDER BY created_date DESC
	`
	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.DriverDocument
	for rows.Next() {
		var doc models.DriverDocument
		var ownerID int64
		if err := rows.Scan(&doc.ID, &ownerID, &doc.S3URL, &doc.ContentType, &doc.CreatedDate); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Driver = models.Ref{ID: ownerID}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
