package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/gabrielbagon/email-classifier-api/internal/api"
	"github.com/gabrielbagon/email-classifier-api/internal/classifier"
	"github.com/gabrielbagon/email-classifier-api/internal/config"
	"github.com/gabrielbagon/email-classifier-api/internal/httpserver"
	"github.com/gabrielbagon/email-classifier-api/internal/langdetect"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/ml"
	"github.com/gabrielbagon/email-classifier-api/internal/processor"
	"github.com/gabrielbagon/email-classifier-api/internal/reply"
	"github.com/gabrielbagon/email-classifier-api/internal/telemetry"
)

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB      *sqlx.DB
	ML      *ml.Service
	Handler *api.Handler
	Server  *httpserver.Server
}

// NewHTTPComponents creates all components for the HTTP server. The model is
// restored from its snapshot or trained from the feedback corpus; either way
// the service starts, falling back to rules-only classification when no model
// is available.
func NewHTTPComponents(ctx context.Context, cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	tp := telemetry.NewProvider()

	stores, err := SetupStores(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup stores: %w", err)
	}

	mlService := ml.NewService(stores.Feedback, cfg.Store.ModelPath, log, tp)
	stats, err := mlService.LoadOrTrain(ctx)
	if err != nil {
		_ = stores.DB.Close()
		return nil, fmt.Errorf("initialize model: %w", err)
	}
	log.Info("Model initialized",
		logger.Bool("available", stats.Available),
		logger.Int("trained_on", stats.TrainedOn),
	)

	engine := classifier.NewEngine(mlService, log, tp)
	detector := langdetect.New()
	batch := processor.NewBatchProcessor(engine, detector, 0, log)
	log.Info("Classification engine initialized")

	handler := api.NewHandler(
		engine,
		reply.NewComposer(),
		detector,
		mlService,
		batch,
		stores.Feedback,
		stores.History,
		tp,
		cfg,
		log,
	)

	server := api.NewServer(cfg, handler, log, stores.DB.Ping)
	server.Router().GET("/metrics", gin.WrapH(tp.Handler()))

	return &HTTPComponents{
		DB:      stores.DB,
		ML:      mlService,
		Handler: handler,
		Server:  server,
	}, nil
}
