package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gabrielbagon/email-classifier-api/internal/config"
	"github.com/gabrielbagon/email-classifier-api/internal/database"
	"github.com/gabrielbagon/email-classifier-api/internal/logger"
	"github.com/gabrielbagon/email-classifier-api/internal/store"
)

// StoreComponents holds the persistence layer: the history database and the
// append-only feedback corpus.
type StoreComponents struct {
	DB       *sqlx.DB
	History  *database.HistoryRepository
	Feedback *store.FeedbackStore
}

// SetupStores opens the SQLite history database and the feedback store.
func SetupStores(cfg *config.Config, log logger.Logger) (*StoreComponents, error) {
	log.Info("Opening history database", logger.String("path", cfg.Store.HistoryDBPath))

	db, err := database.NewSQLiteConnection(cfg.Store.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	return &StoreComponents{
		DB:       db,
		History:  database.NewHistoryRepository(db),
		Feedback: store.NewFeedbackStore(cfg.Store.FeedbackPath, log),
	}, nil
}
