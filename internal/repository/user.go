package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

// UserRepository handles database operations for platform users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, created_date, first_name, last_name, date_of_birth,
		email, password, phone_number, access_status, confirmation_token`

// Create inserts a new platform user and populates its id.
// A duplicate email surfaces as Conflict.
func (r *UserRepository) Create(ctx context.Context, user *models.PlatformUser) error {
	query := `
		INSERT INTO platform_user
			(created_date, first_name, last_name, date_of_birth, email, password,
			 phone_number, access_status, confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.CreatedDate, user.FirstName, user.LastName, user.DateOfBirth,
		user.Email, user.Password, user.PhoneNumber, user.AccessStatus,
		user.ConfirmationToken,
	).Scan(&user.ID)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: email %s", domainErr, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a platform user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.PlatformUser, error) {
	query := `SELECT ` + userColumns + ` FROM platform_user WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id), fmt.Sprintf("user id %d", id))
}

// GetByEmail retrieves a platform user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.PlatformUser, error) {
	query := `SELECT ` + userColumns + ` FROM platform_user WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email), fmt.Sprintf("email %s", email))
}

// GetByConfirmationToken retrieves a staged user by its confirmation token
func (r *UserRepository) GetByConfirmationToken(ctx context.Context, token string) (*models.PlatformUser, error) {
	query := `SELECT ` + userColumns + ` FROM platform_user WHERE confirmation_token = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, token), "confirmation token")
}

// Update persists the full mutable state of a platform user
func (r *UserRepository) Update(ctx context.Context, user *models.PlatformUser) error {
	query := `
		UPDATE platform_user
		SET first_name = $1, last_name = $2, date_of_birth = $3, email = $4,
		    password = $5, phone_number = $6, access_status = $7,
		    confirmation_token = $8
		WHERE id = $9
	`
	result, err := r.db.Exec(ctx, query,
		user.FirstName, user.LastName, user.DateOfBirth, user.Email,
		user.Password, user.PhoneNumber, user.AccessStatus,
		user.ConfirmationToken, user.ID,
	)
	if err != nil {
		if domainErr := translateConstraint(err); domainErr != nil {
			return fmt.Errorf("%w: email %s", domainErr, user.Email)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user id %d", apperr.ErrNotFound, user.ID)
	}
	return nil
}

// Delete removes a platform user. Driver/passenger sub-records share the
// user's id and are removed by the schema's cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM platform_user WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user id %d", apperr.ErrNotFound, id)
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row, desc string) (*models.PlatformUser, error) {
	var user models.PlatformUser
	err := row.Scan(
		&user.ID, &user.CreatedDate, &user.FirstName, &user.LastName,
		&user.DateOfBirth, &user.Email, &user.Password, &user.PhoneNumber,
		&user.AccessStatus, &user.ConfirmationToken,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, desc)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
