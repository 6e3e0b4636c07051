// familyconnect-server runs the HTTP surface alone, for deployments where the
// CLI is not wanted. Configuration comes from the usual file and environment
// layers.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"familyconnect/internal/app"
	"familyconnect/internal/config"
	"familyconnect/internal/logging"
	"familyconnect/internal/server"
)

func main() {
	logger := logging.NewComponentLogger("Main")

	cfg, meta, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Info("Starting familyconnect server on %s:%d (persona %s, config from %s)",
		cfg.ServerHost, cfg.ServerPort, cfg.Persona, meta.Source("persona"))

	application, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("build application: %v", err)
	}

	srv, err := server.New(server.Config{
		Host:           cfg.ServerHost,
		Port:           cfg.ServerPort,
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.AllowedOrigins,
	}, server.Dependencies{
		Router:    application.Router,
		Personas:  application.Personas,
		Store:     application.Store,
		Sessions:  application.Sessions,
		LLMClient: application.LLMClient,
		Metrics:   application.Metrics,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Error("Server stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Shutdown incomplete: %v", err)
	}
}
