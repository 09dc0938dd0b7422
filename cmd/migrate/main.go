package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/socialdesk/socialdesk/internal/config"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/postgres"
	"github.com/socialdesk/socialdesk/internal/sentry"
	"github.com/spf13/cobra"
)

const migrationTimeout = 5 * time.Minute

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SocialDesk postgres schema",
	}

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(downCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db *postgres.DB, logger *logger.Logger) error {
				logger.Info("Running database migrations...")
				if err := db.MigrateUp(ctx); err != nil {
					return err
				}
				logger.Info("Migration completed successfully")
				return nil
			})
		},
	}
}

func downCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("steps must be at least 1, got %d", steps)
			}
			return withDB(func(ctx context.Context, db *postgres.DB, logger *logger.Logger) error {
				logger.Infow("Rolling back migrations", "steps", steps)
				return db.MigrateDown(ctx, steps)
			})
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(ctx context.Context, db *postgres.DB, logger *logger.Logger) error {
				version, err := db.MigrationStatus(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Schema version: %d\n", version)
				return nil
			})
		},
	}
}

func withDB(fn func(ctx context.Context, db *postgres.DB, logger *logger.Logger) error) error {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger, sentry.NewSentryService(cfg, logger))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	return fn(ctx, db, logger)
}
