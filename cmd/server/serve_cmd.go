package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hrperf/internal/app/server"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides APP_ADDR)")
	return cmd
}
