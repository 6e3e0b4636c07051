package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"familyconnect/internal/server"
)

func newServeCommand(state *cliState) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Démarrer le serveur HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.initialize(); err != nil {
				return err
			}
			cfg := state.app.Config
			if host != "" {
				cfg.ServerHost = host
			}
			if port > 0 {
				cfg.ServerPort = port
			}

			srv, err := server.New(server.Config{
				Host:           cfg.ServerHost,
				Port:           cfg.ServerPort,
				EnableCORS:     cfg.EnableCORS,
				AllowedOrigins: cfg.AllowedOrigins,
				Debug:          state.debug,
			}, server.Dependencies{
				Router:    state.app.Router,
				Personas:  state.app.Personas,
				Store:     state.app.Store,
				Sessions:  state.app.Sessions,
				LLMClient: state.app.LLMClient,
				Metrics:   state.app.Metrics,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = srv.Start(ctx)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = state.app.Shutdown(shutdownCtx)
			return err
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")
	return cmd
}
