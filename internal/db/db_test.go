package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Raj051299/cms-mobile-app/internal/db"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cms.db")

	conn, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	versions, err := db.AppliedVersions(ctx, conn)
	if err != nil {
		t.Fatalf("AppliedVersions: %v", err)
	}
	if len(versions) != 1 || versions[0] != 1 {
		t.Fatalf("expected [1], got %v", versions)
	}

	// Migrating twice is a no-op.
	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	versions, _ = db.AppliedVersions(ctx, conn)
	if len(versions) != 1 {
		t.Fatalf("expected migrations to stay at 1 entry, got %v", versions)
	}
}

func TestSeedDev_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenMemory(ctx, t.Name())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer conn.Close()

	opt := db.SeedDevOptions{AdminUsername: "admin", AdminPasswordHash: "hash"}
	for i := 0; i < 2; i++ {
		if err := db.SeedDev(ctx, conn, opt); err != nil {
			t.Fatalf("SeedDev #%d: %v", i, err)
		}
	}

	var users, events int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&events); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if users != 1 || events != 1 {
		t.Errorf("expected 1 user and 1 event, got %d and %d", users, events)
	}
}

// ── Worker ──────────────────────────────────────────────────────────────────

func TestWorker_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenMemory(ctx, t.Name())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer conn.Close()

	w := db.NewWorker(conn)
	defer w.Close()

	boom := errors.New("boom")
	err = w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events(event_id, title, scheduled_at_ms, created_at_ms, updated_at_ms) VALUES ('e1','t',0,0,0)`,
		); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected rollback, found %d rows", n)
	}
}

func TestWorker_DoAfterClose(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenMemory(ctx, t.Name())
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer conn.Close()

	w := db.NewWorker(conn)
	w.Close()
	w.Close()

	err = w.Do(ctx, func(context.Context, *sql.Tx) error { return nil })
	if !errors.Is(err, db.ErrWorkerClosed) {
		t.Fatalf("expected ErrWorkerClosed, got %v", err)
	}
}

func TestDSN_SyncModeFollowsEnv(t *testing.T) {
	if dsn := db.DSN("x.db", "prod"); !strings.Contains(dsn, "synchronous(FULL)") {
		t.Errorf("prod dsn: %s", dsn)
	}
	if dsn := db.DSN("x.db", "dev"); !strings.Contains(dsn, "synchronous(NORMAL)") {
		t.Errorf("dev dsn: %s", dsn)
	}
}
