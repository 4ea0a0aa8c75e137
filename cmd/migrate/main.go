package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/blogposts/backend/internal/config"
	"github.com/blogposts/backend/internal/logging"
	"github.com/blogposts/backend/internal/repository"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the blogs table schema to PostgreSQL",
		Long: `migrate manages the schema used by STORE_DRIVER=postgres.

Running without a subcommand is the same as "migrate up".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), databaseURL, repository.MigrateUp)
		},
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (default: DATABASE_URL)")

	for _, sub := range []struct {
		command string
		short   string
	}{
		{repository.MigrateUp, "Apply pending migrations"},
		{repository.MigrateReset, "Roll back every migration, then apply them all again"},
		{repository.MigrateStatus, "Print applied and pending migrations"},
	} {
		command := sub.command
		root.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), databaseURL, command)
			},
		})
	}
	return root
}

func run(ctx context.Context, databaseURL, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)

	if databaseURL == "" {
		databaseURL = cfg.DatabaseURL
	}
	if cfg.StoreDriver != repository.DriverPostgres && databaseURL == cfg.DatabaseURL {
		slog.Warn("STORE_DRIVER is not postgres; migrating DATABASE_URL anyway", "store_driver", cfg.StoreDriver)
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool, command); err != nil {
		slog.Error("migration failed", "command", command, "error", err)
		return err
	}
	slog.Info("migration completed", "command", command)
	return nil
}
