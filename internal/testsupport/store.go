package testsupport

import (
	"context"
	"testing"

	"recap/internal/config"
	"recap/internal/history"
)

// MustOpenHistory opens the run history store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedRun inserts a completed run for tests using the provided store.
func SeedRun(t testing.TB, store *history.Store, runID, source string) int64 {
	t.Helper()

	id, err := store.Append(context.Background(), history.Entry{
		RunID:  runID,
		Source: source,
	})
	if err != nil {
		t.Fatalf("store.Append: %v", err)
	}
	return id
}
