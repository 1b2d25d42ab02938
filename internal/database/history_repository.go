package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// HistoryEntry is one classified message as recorded for auditing and stats.
// Only the text hash is stored; the message body never reaches the database.
type HistoryEntry struct {
	ID               int64     `db:"id" json:"id"`
	TextHash         string    `db:"text_hash" json:"text_hash"`
	Category         string    `db:"category" json:"category"`
	Subtype          string    `db:"subtype" json:"subtype"`
	Confidence       float64   `db:"confidence" json:"confidence"`
	DecisionSource   string    `db:"decision_source" json:"decision_source"`
	NeedsReview      bool      `db:"needs_review" json:"needs_review"`
	HasAttachment    bool      `db:"has_attachment" json:"has_attachment"`
	HasTicket        bool      `db:"has_ticket" json:"has_ticket"`
	Lang             string    `db:"lang" json:"lang"`
	ProcessingTimeMs float64   `db:"processing_time_ms" json:"processing_time_ms"`
	ClassifiedAt     time.Time `db:"classified_at" json:"classified_at"`
}

// HistoryStats aggregates the recorded decisions.
type HistoryStats struct {
	TotalClassified     int            `json:"total_classified"`
	NeedsReview         int            `json:"needs_review"`
	AvgConfidence       float64        `json:"avg_confidence"`
	AvgProcessingTimeMs float64        `json:"avg_processing_time_ms"`
	Categories          map[string]int `json:"categories"`
	Subtypes            map[string]int `json:"subtypes"`
	DecisionSources     map[string]int `json:"decision_sources"`
}

// HistoryRepository handles database operations for classification history.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new classification history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new history record and fills in its ID and timestamp.
func (r *HistoryRepository) Create(ctx context.Context, entry *HistoryEntry) error {
	if entry.Lang == "" {
		entry.Lang = "pt"
	}
	entry.ClassifiedAt = time.Now().UTC()

	query := `
		INSERT INTO classification_history (
			text_hash, category, subtype, confidence, decision_source,
			needs_review, has_attachment, has_ticket, lang,
			processing_time_ms, classified_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(
		ctx,
		query,
		entry.TextHash,
		entry.Category,
		entry.Subtype,
		entry.Confidence,
		entry.DecisionSource,
		entry.NeedsReview,
		entry.HasAttachment,
		entry.HasTicket,
		entry.Lang,
		entry.ProcessingTimeMs,
		entry.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create classification history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted history id: %w", err)
	}
	entry.ID = id

	return nil
}

// Recent returns the latest recorded decisions, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []HistoryEntry
	query := `
		SELECT id, text_hash, category, subtype, confidence, decision_source,
		       needs_review, has_attachment, has_ticket, lang,
		       processing_time_ms, classified_at
		FROM classification_history
		ORDER BY classified_at DESC, id DESC
		LIMIT ?
	`

	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list classification history: %w", err)
	}

	return entries, nil
}

// GetStats retrieves overall classification statistics.
func (r *HistoryRepository) GetStats(ctx context.Context) (*HistoryStats, error) {
	stats := HistoryStats{
		Categories:      make(map[string]int),
		Subtypes:        make(map[string]int),
		DecisionSources: make(map[string]int),
	}

	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN needs_review THEN 1 ELSE 0 END), 0) AS needs_review,
			COALESCE(AVG(confidence), 0) AS avg_confidence,
			COALESCE(AVG(processing_time_ms), 0) AS avg_processing_time_ms
		FROM classification_history
	`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalClassified,
		&stats.NeedsReview,
		&stats.AvgConfidence,
		&stats.AvgProcessingTimeMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get classification stats: %w", err)
	}

	groups := []struct {
		column string
		dest   map[string]int
	}{
		{"category", stats.Categories},
		{"subtype", stats.Subtypes},
		{"decision_source", stats.DecisionSources},
	}

	for _, g := range groups {
		groupQuery := fmt.Sprintf(`
			SELECT %s AS label, COUNT(*) AS count
			FROM classification_history
			GROUP BY %s
		`, g.column, g.column)

		rows, err := r.db.QueryContext(ctx, groupQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s distribution: %w", g.column, err)
		}

		for rows.Next() {
			var label string
			var count int
			if err := rows.Scan(&label, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan %s distribution: %w", g.column, err)
			}
			g.dest[label] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error iterating %s distribution: %w", g.column, err)
		}
		rows.Close()
	}

	return &stats, nil
}
