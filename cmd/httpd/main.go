package main

import (
	"context"
	"log"
	"os"

	"github.com/gabrielbagon/email-classifier-api/internal/bootstrap"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	components, err := bootstrap.NewHTTPComponents(context.Background(), cfg, logr)
	if err != nil {
		logr.Error("Failed to initialize service", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = components.DB.Close() }()

	logr.Info("Starting triage HTTP server",
		logger.Int("port", cfg.Server.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	if err := components.Server.RunWithGracefulShutdown(context.Background()); err != nil {
		logr.Error("Server error", logger.Error(err))
		os.Exit(1)
	}

	logr.Info("Server stopped gracefully")
}
