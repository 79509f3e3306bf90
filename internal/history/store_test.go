package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/truthlens/truthlens/internal/api"
)

func setupTestStore(t *testing.T, maxEntries int) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "history-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath, maxEntries)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func testRecord(id string, createdAt time.Time) *Record {
	return &Record{
		ID:    id,
		Title: "Record " + id,
		Text:  "Some article body long enough to be plausible.",
		Result: api.DetectionResult{
			Success:         true,
			Prediction:      "Fake",
			Confidence:      0.82,
			FakeProbability: 0.82,
			RealProbability: 0.18,
			Explanation:     "Sensational framing, no sources.",
			WordHighlights: []api.WordHighlight{
				{Word: "shocking", Importance: 0.7, Direction: "fake"},
			},
			RequestID: id,
		},
		CreatedAt: createdAt,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t, 0)
	defer cleanup()

	rec := testRecord("req-1", time.Now())
	if err := store.Save(rec); err != nil {
		t.Fatalf("failed to save record: %v", err)
	}

	got, err := store.Get("req-1")
	if err != nil {
		t.Fatalf("failed to get record: %v", err)
	}
	if got.Title != rec.Title {
		t.Errorf("Title = %q, want %q", got.Title, rec.Title)
	}
	if got.Result.Prediction != "Fake" {
		t.Errorf("Prediction = %q, want Fake", got.Result.Prediction)
	}
	if len(got.Result.WordHighlights) != 1 || got.Result.WordHighlights[0].Word != "shocking" {
		t.Errorf("highlights not round-tripped: %+v", got.Result.WordHighlights)
	}
}

func TestStore_MissingIDGetsGenerated(t *testing.T) {
	store, cleanup := setupTestStore(t, 0)
	defer cleanup()

	rec := testRecord("", time.Now())
	if err := store.Save(rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" {
		t.Error("expected Save to assign an id")
	}
}

func TestStore_RecentNewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t, 0)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := testRecord(fmt.Sprintf("req-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("len(Recent(3)) = %d, want 3", len(records))
	}
	for i := 0; i < len(records)-1; i++ {
		if records[i].CreatedAt.Before(records[i+1].CreatedAt) {
			t.Errorf("records not newest-first at index %d", i)
		}
	}
	if records[0].ID != "req-4" {
		t.Errorf("newest record = %s, want req-4", records[0].ID)
	}
}

func TestStore_PrunesOldestPastCap(t *testing.T) {
	store, cleanup := setupTestStore(t, 3)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		rec := testRecord(fmt.Sprintf("req-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(rec); err != nil {
			t.Fatal(err)
		}
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("Count() = %d, want 3", n)
	}

	if _, err := store.Get("req-0"); err == nil {
		t.Error("expected oldest record to be pruned")
	}
	if _, err := store.Get("req-5"); err != nil {
		t.Errorf("expected newest record to survive: %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store, cleanup := setupTestStore(t, 0)
	defer cleanup()

	if err := store.Save(testRecord("req-1", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("req-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("req-1"); err == nil {
		t.Error("expected record to be gone")
	}

	// Deleting again is a no-op.
	if err := store.Delete("req-1"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}
