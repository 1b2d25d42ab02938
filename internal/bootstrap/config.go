// Package bootstrap wires configuration, storage, the classification engine
// and the HTTP server into runnable components.
package bootstrap

import (
	"fmt"
	"log"

	"github.com/gabrielbagon/email-classifier-api/internal/config"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
)

// LoadConfig loads configuration. Uses defaults if the file doesn't exist.
func LoadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config file (%s), using defaults: %v", configPath, err)
		return config.Load("")
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	logr, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logr.With(logger.String("service", cfg.Service.Name)), nil
}
