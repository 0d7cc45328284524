package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"itus/internal/api"
	"itus/internal/departures"
	"itus/internal/journeyplanner"
	"itus/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve departure boards over HTTP",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			registry := telemetry.NewRegistry(Version, GitCommit)
			metrics := telemetry.NewMetrics(registry)

			client := journeyplanner.NewClient(cfg.JourneyPlanner, journeyplanner.NewLimiter(cfg.JourneyPlanner), metrics, app.logger)
			service := departures.NewService(client, cfg.JourneyPlanner.Concurrency, metrics, app.logger)
			server := api.NewServer(cfg.Server, cfg.Board, service, registry, metrics, app.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
				app.logger.Println("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")

	return cmd
}
