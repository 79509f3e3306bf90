package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/internal/api"
	"github.com/truthlens/truthlens/internal/history"
)

func setupEngine(t *testing.T) (*Engine, *history.Store) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := history.NewStore(filepath.Join(tmpDir, "test.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine, err := NewEngine(store, "")
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	return engine, store
}

func saveAndIndex(t *testing.T, engine *Engine, store *history.Store, rec *history.Record) {
	t.Helper()
	require.NoError(t, store.Save(rec))
	require.NoError(t, engine.Index(rec))
}

func record(id, title, prediction, explanation string, words ...string) *history.Record {
	highlights := make([]api.WordHighlight, 0, len(words))
	for _, w := range words {
		highlights = append(highlights, api.WordHighlight{Word: w, Importance: 0.5, Direction: "fake"})
	}
	return &history.Record{
		ID:    id,
		Title: title,
		Text:  "body text for " + title,
		Result: api.DetectionResult{
			Prediction:     prediction,
			Explanation:    explanation,
			WordHighlights: highlights,
			RequestID:      id,
		},
		CreatedAt: time.Now(),
	}
}

func TestSearchFindsByTitle(t *testing.T) {
	engine, store := setupEngine(t)

	saveAndIndex(t, engine, store, record("a", "Miracle cure discovered overnight", "Fake", "Sensational health claims."))
	saveAndIndex(t, engine, store, record("b", "City council approves budget", "Real", "Routine municipal reporting."))

	results, err := engine.Search("miracle", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Record.ID)
}

func TestSearchFindsByHighlightWord(t *testing.T) {
	engine, store := setupEngine(t)

	saveAndIndex(t, engine, store, record("a", "Some headline here", "Fake", "Explanation.", "shocking", "secret"))
	saveAndIndex(t, engine, store, record("b", "Another headline", "Real", "Explanation.", "budget"))

	results, err := engine.Search("shocking", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Record.ID)
}

func TestSearchByPrediction(t *testing.T) {
	engine, store := setupEngine(t)

	saveAndIndex(t, engine, store, record("a", "Headline one here", "Fake", "Explanation."))
	saveAndIndex(t, engine, store, record("b", "Headline two here", "Fake", "Explanation."))
	saveAndIndex(t, engine, store, record("c", "Headline three here", "Real", "Explanation."))

	results, err := engine.Search("fake", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestShortQueryReturnsNothing(t *testing.T) {
	engine, store := setupEngine(t)
	saveAndIndex(t, engine, store, record("a", "Miracle cure discovered", "Fake", "Explanation."))

	results, err := engine.Search("m", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRemoveDropsFromIndex(t *testing.T) {
	engine, store := setupEngine(t)
	saveAndIndex(t, engine, store, record("a", "Miracle cure discovered", "Fake", "Explanation."))

	require.NoError(t, engine.Remove("a"))
	results, err := engine.Search("miracle", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReindexAllPicksUpExistingRecords(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "search-reindex-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := history.NewStore(filepath.Join(tmpDir, "test.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Save(record("a", "Miracle cure discovered", "Fake", "Explanation.")))

	// Engine built after the save must see the record via reindex.
	engine, err := NewEngine(store, "")
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	n, err := engine.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := engine.Search("miracle", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
