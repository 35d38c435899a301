package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SeedDevOptions struct {
	// AdminUsername/AdminPasswordHash create a dev admin login when both are set.
	AdminUsername     string
	AdminPasswordHash string
}

// SeedDev inserts a starter member, event and (optionally) admin user.
// Re-running it is harmless.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()

	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO members(member_id, name, email, created_at_ms, updated_at_ms)
VALUES ('member_dev', 'Dev Member', 'dev@example.org', ?, ?);`, now, now); err != nil {
		return fmt.Errorf("seed members: %w", err)
	}

	// Scheduled a week out so it shows up as upcoming.
	scheduled := time.Now().UTC().Add(7 * 24 * time.Hour).UnixMilli()
	if _, err := db.ExecContext(ctx, `
INSERT INTO events(event_id, title, scheduled_at_ms, location, description, created_at_ms, updated_at_ms)
VALUES ('event_dev', 'Community Meetup', ?, 'Main Hall', 'Dev seed event', ?, ?)
ON CONFLICT(event_id) DO UPDATE SET
  updated_at_ms = excluded.updated_at_ms;
`, scheduled, now, now); err != nil {
		return fmt.Errorf("seed event_dev: %w", err)
	}

	user := strings.TrimSpace(opt.AdminUsername)
	if user == "" || opt.AdminPasswordHash == "" {
		return nil
	}
	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO users(user_id, username, password_hash, is_admin, created_at_ms)
VALUES (?, ?, ?, 1, ?);`, uuid.NewString(), user, opt.AdminPasswordHash, now); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	return nil
}
