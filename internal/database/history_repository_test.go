package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielbagon/email-classifier-api/internal/database"
)

func openTestDB(t *testing.T) *database.HistoryRepository {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.NewHistoryRepository(db)
}

func TestHistoryRepository_CreateAndRecent(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	first := &database.HistoryEntry{
		TextHash:       "hash-1",
		Category:       "Produtivo",
		Subtype:        "status_request",
		Confidence:     0.82,
		DecisionSource: "rules",
		HasTicket:      true,
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.ClassifiedAt.IsZero())
	assert.Equal(t, "pt", first.Lang)

	second := &database.HistoryEntry{
		TextHash:       "hash-2",
		Category:       "Improdutivo",
		Subtype:        "greetings_or_thanks",
		Confidence:     0.55,
		DecisionSource: "rules",
		NeedsReview:    true,
		Lang:           "en",
	}
	require.NoError(t, repo.Create(ctx, second))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hash-2", entries[0].TextHash)
	assert.Equal(t, "hash-1", entries[1].TextHash)
}

func TestHistoryRepository_GetStats(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	seed := []database.HistoryEntry{
		{TextHash: "a", Category: "Produtivo", Subtype: "status_request", Confidence: 0.8, DecisionSource: "rules"},
		{TextHash: "b", Category: "Produtivo", Subtype: "support_request", Confidence: 0.7, DecisionSource: "ml"},
		{TextHash: "c", Category: "Improdutivo", Subtype: "greetings_or_thanks", Confidence: 0.55, DecisionSource: "rules", NeedsReview: true},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalClassified)
	assert.Equal(t, 1, stats.NeedsReview)
	assert.InDelta(t, (0.8+0.7+0.55)/3, stats.AvgConfidence, 0.0001)
	assert.Equal(t, map[string]int{"Produtivo": 2, "Improdutivo": 1}, stats.Categories)
	assert.Equal(t, map[string]int{"status_request": 1, "support_request": 1, "greetings_or_thanks": 1}, stats.Subtypes)
	assert.Equal(t, map[string]int{"rules": 2, "ml": 1}, stats.DecisionSources)
}

func TestHistoryRepository_EmptyStats(t *testing.T) {
	repo := openTestDB(t)

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalClassified)
	assert.Zero(t, stats.AvgConfidence)
	assert.Empty(t, stats.Categories)
}
