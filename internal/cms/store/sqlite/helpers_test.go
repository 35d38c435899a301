package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlitestore "github.com/Raj051299/cms-mobile-app/internal/cms/store/sqlite"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
	"github.com/Raj051299/cms-mobile-app/internal/db"
)

// openTestDB returns an in-memory SQLite connection with the production
// schema.  Each test gets its own database, closed when the test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenMemory(context.Background(), "test_"+t.Name())
	if err != nil {
		t.Fatalf("openTestDB: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn.  The worker is closed
// automatically when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

// seedEvent inserts a minimal event row.
func seedEvent(t *testing.T, conn *sql.DB, w *db.Worker, id string) {
	t.Helper()

	es := sqlitestore.NewEventStore(conn, w)
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	if err := es.CreateEvent(context.Background(), types.Event{
		ID:          id,
		Title:       "Event " + id,
		ScheduledAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("seedEvent %s: %v", id, err)
	}
}
