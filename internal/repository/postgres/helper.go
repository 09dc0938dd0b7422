package postgres

import (
	"database/sql"

	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/postgres"
)

// wrapGetError maps a missing row to ErrNotFound and anything else to ErrDatabase
func wrapGetError(err error, entity string, details map[string]any) error {
	if postgres.IsNoRows(err) {
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return ierr.WithError(err).
		WithHintf("Failed to get %s", entity).
		Mark(ierr.ErrDatabase)
}

// wrapWriteError maps unique and foreign key violations to client errors
func wrapWriteError(err error, entity string, details map[string]any) error {
	switch {
	case postgres.IsUniqueViolation(err):
		if details == nil {
			details = map[string]any{}
		}
		details["constraint"] = postgres.ConstraintName(err)
		return ierr.WithError(err).
			WithHintf("%s already exists", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrAlreadyExists)
	case postgres.IsForeignKeyViolation(err):
		return ierr.WithError(err).
			WithHintf("%s references a record that does not exist", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	default:
		return ierr.WithError(err).
			WithHintf("Failed to save %s", entity).
			Mark(ierr.ErrDatabase)
	}
}

func wrapListError(err error, entity string) error {
	return ierr.WithError(err).
		WithHintf("Failed to list %s", entity).
		Mark(ierr.ErrDatabase)
}

// checkAffected turns an update that matched nothing into ErrNotFound
func checkAffected(result sql.Result, entity string, details map[string]any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if n == 0 {
		return ierr.NewErrorf("%s not found", entity).
			WithHintf("%s not found", entity).
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
