package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	dbpkg "github.com/Raj051299/cms-mobile-app/internal/db"
)

type ClockAuditStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewClockAuditStore(db *sql.DB, writer *dbpkg.Worker) *ClockAuditStore {
	return &ClockAuditStore{db: db, writer: writer}
}

func (s *ClockAuditStore) RecordClock(ctx context.Context, e store.ClockAuditEntry) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO clock_audit(event_id, member_id, action, operator_id, outcome, at_ms)
VALUES (?, ?, ?, ?, ?, ?);
`, e.EventID, e.MemberID, e.Action, e.OperatorID, e.Outcome, toMs(e.At)); err != nil {
			return fmt.Errorf("RecordClock insert: %w", err)
		}
		return nil
	})
}

func (s *ClockAuditStore) ListClockAudit(ctx context.Context, eventID string) ([]store.ClockAuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT event_id, member_id, action, operator_id, outcome, at_ms
FROM clock_audit
WHERE event_id = ?
ORDER BY at_ms, id;
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("ListClockAudit: %w", err)
	}
	defer rows.Close()

	var out []store.ClockAuditEntry
	for rows.Next() {
		var (
			e    store.ClockAuditEntry
			atMs int64
		)
		if err := rows.Scan(&e.EventID, &e.MemberID, &e.Action, &e.OperatorID, &e.Outcome, &atMs); err != nil {
			return nil, fmt.Errorf("ListClockAudit scan: %w", err)
		}
		e.At = fromMs(atMs)
		out = append(out, e)
	}
	return out, rows.Err()
}
