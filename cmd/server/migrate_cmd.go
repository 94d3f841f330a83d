package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"hrperf/internal/platform/config"
	"hrperf/internal/platform/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverPostgres {
				return errors.New("migrate requires STORE_DRIVER=postgres")
			}
			pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := db.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			slog.Info("migrations applied")
			return nil
		},
	}
}
