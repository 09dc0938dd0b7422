package internal

import (
	"fmt"

	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/sentry"
)

type scriptDeps struct {
	cfg *config.Configuration
	log *logger.Logger
	db  *postgres.DB
}

func newScriptDeps() (*scriptDeps, error) {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := postgres.NewDB(cfg, log, sentry.NewSentryService(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &scriptDeps{cfg: cfg, log: log, db: db}, nil
}
