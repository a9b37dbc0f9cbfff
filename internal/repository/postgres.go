package repository

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgconn"

	"carpool-backend/internal/apperr"
)

// Migrate applies pending migrations from the given directory.
func Migrate(sourcePath, databaseURL string) error {
	m, err := migrate.New("file://"+sourcePath, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// translateConstraint converts unique and foreign-key violations into the
// domain error taxonomy so concurrent create-if-absent races surface as
// Conflict instead of a raw database error.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperr.ErrConflict
		case "23503": // foreign_key_violation
			return apperr.ErrNotFound
		}
	}
	return nil
}
