// Package api exposes the email triage pipeline over HTTP: classification,
// reply composition, feedback capture, and model lifecycle endpoints.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gabrielbagon/email-classifier-api/internal/config"
	"github.com/gabrielbagon/email-classifier-api/internal/httpserver"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
)

// NewServer assembles the HTTP server for the triage API: standard
// middleware, health endpoints, and the versioned routes.
func NewServer(cfg *config.Config, handler *Handler, log logger.Logger, pingDB func() error) *httpserver.Server {
	serverCfg := &httpserver.Config{
		Port:            cfg.Server.Port,
		Debug:           cfg.Service.Debug,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ServiceName:     cfg.Service.Name,
		ServiceVersion:  cfg.Service.Version,
		CORS: httpserver.CORSConfig{
			AllowedOrigins: cfg.Server.CORSOrigins,
		},
	}
	serverCfg.SetDefaults()

	srv := httpserver.NewServer(serverCfg, log, func(router *gin.Engine) {
		RegisterRoutes(router, handler)
	})

	checks := map[string]httpserver.HealthChecker{
		"model": httpserver.ModelHealthChecker(func() bool {
			return handler.mlService.Status().Available
		}),
	}
	if pingDB != nil {
		checks["database"] = httpserver.DatabaseHealthChecker(pingDB)
	}
	httpserver.RegisterHealthRoutes(srv.Router(), cfg.Service.Name, cfg.Service.Version, checks)

	return srv
}
