// Package database provides database connectivity and operations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// DefaultPingTimeout is the default timeout for ping operations
	DefaultPingTimeout = 5 * time.Second

	// busyTimeoutMs makes concurrent writers wait instead of failing with
	// SQLITE_BUSY.
	busyTimeoutMs = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS classification_history (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	text_hash          TEXT    NOT NULL,
	category           TEXT    NOT NULL,
	subtype            TEXT    NOT NULL,
	confidence         REAL    NOT NULL,
	decision_source    TEXT    NOT NULL,
	needs_review       INTEGER NOT NULL DEFAULT 0,
	has_attachment     INTEGER NOT NULL DEFAULT 0,
	has_ticket         INTEGER NOT NULL DEFAULT 0,
	lang               TEXT    NOT NULL DEFAULT 'pt',
	processing_time_ms REAL    NOT NULL DEFAULT 0,
	classified_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_classified_at ON classification_history (classified_at);
CREATE INDEX IF NOT EXISTS idx_history_category ON classification_history (category);
`

// NewSQLiteConnection opens (creating if needed) the SQLite database and
// applies the schema. WAL mode keeps readers unblocked while classification
// requests append history rows.
func NewSQLiteConnection(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on", path, busyTimeoutMs)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes; a single connection avoids lock contention
	// inside the driver.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
