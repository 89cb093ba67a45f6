package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/plantid/internal/places"
	"github.com/vbonduro/plantid/internal/service"
	"github.com/vbonduro/plantid/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, cleanup, err := setup(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr != "" {
				cfg.ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			gateway := places.NewGateway(cfg.PlacesAPIKey, cfg.PlacesBaseURL)
			if cfg.PlacesAPIKey == "" {
				logger.Warn("GOOGLE_PLACES_API_KEY is not set; nursery lookups will fail")
			}

			plants := service.NewPlantService(newModel(ctx, cfg, logger), logger)
			server := web.NewServer(plants, gateway, logger)
			if err := server.Run(ctx, cfg.ListenAddr); err != nil {
				logger.Error("server error", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LISTEN_ADDR)")
	return cmd
}

// commandContext returns the command's context, or Background when the
// command was invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
