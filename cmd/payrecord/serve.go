package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/payrecord/internal/config"
	"github.com/mmynk/payrecord/internal/server"
	"github.com/mmynk/payrecord/pkg/logging"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.SetupWithLevel(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := server.OpenStore(ctx, cfg.Database)
			if err != nil {
				logger.Error("Failed to initialize storage", "error", err)
				return err
			}
			defer store.Close()
			logger.Info("Storage initialized", "driver", cfg.Database.Driver)

			return server.New(cfg, store, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to payrecord.yaml (defaults and environment only when empty)")
	return cmd
}
