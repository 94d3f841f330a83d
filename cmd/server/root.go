package main

import (
	"github.com/spf13/cobra"

	"hrperf/internal/platform/config"
	"hrperf/internal/platform/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "hrperf",
		Short:        "Employee performance management server",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return cmd
}

// loadConfig reads the environment, installs the logger and validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
