package main

import (
	"errors"

	"github.com/spf13/cobra"

	"hrperf/internal/app/server"
	"hrperf/internal/platform/config"
	"hrperf/internal/platform/db"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo employees, reviews, goals and feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.DriverPostgres {
				return errors.New("seed requires STORE_DRIVER=postgres; the memory driver seeds on start")
			}
			store, err := server.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			return db.Seed(cmd.Context(), store, store)
		},
	}
}
