package postgres

import (
	"context"
	"embed"

	"github.com/pressly/goose/v3"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

func prepareGoose() error {
	goose.SetBaseFS(migrations)
	return goose.SetDialect("postgres")
}

// MigrateUp applies all pending migrations
func (db *DB) MigrateUp(ctx context.Context) error {
	if err := prepareGoose(); err != nil {
		return ierr.WithError(err).WithMessage("failed to set goose dialect").Mark(ierr.ErrDatabase)
	}
	if err := goose.UpContext(ctx, db.DB.DB, migrationsDir); err != nil {
		return ierr.WithError(err).WithMessage("failed to apply migrations").Mark(ierr.ErrDatabase)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations
func (db *DB) MigrateDown(ctx context.Context, steps int) error {
	if err := prepareGoose(); err != nil {
		return ierr.WithError(err).WithMessage("failed to set goose dialect").Mark(ierr.ErrDatabase)
	}
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, db.DB.DB, migrationsDir); err != nil {
			return ierr.WithError(err).WithMessage("failed to roll back migration").Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

// MigrationStatus logs the state of every migration and returns the current version
func (db *DB) MigrationStatus(ctx context.Context) (int64, error) {
	if err := prepareGoose(); err != nil {
		return 0, ierr.WithError(err).WithMessage("failed to set goose dialect").Mark(ierr.ErrDatabase)
	}
	if err := goose.StatusContext(ctx, db.DB.DB, migrationsDir); err != nil {
		return 0, ierr.WithError(err).WithMessage("failed to read migration status").Mark(ierr.ErrDatabase)
	}
	version, err := goose.GetDBVersionContext(ctx, db.DB.DB)
	if err != nil {
		return 0, ierr.WithError(err).WithMessage("failed to read migration version").Mark(ierr.ErrDatabase)
	}
	return version, nil
}
