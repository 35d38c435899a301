package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
	dbpkg "github.com/Raj051299/cms-mobile-app/internal/db"
)

type AttendanceStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAttendanceStore(db *sql.DB, writer *dbpkg.Worker) *AttendanceStore {
	return &AttendanceStore{db: db, writer: writer}
}

const attendeeColumns = `event_id, member_id, name, invited_at_ms, clock_in_ms, clock_out_ms`

func (s *AttendanceStore) GetAttendance(ctx context.Context, eventID, memberID string) (*types.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+attendeeColumns+`
FROM attendees
WHERE event_id = ? AND member_id = ?;
`, eventID, memberID)
	rec, err := scanAttendee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetAttendance: %w", err)
	}
	return &rec, nil
}

// ClockIn is create-if-absent: the upsert only fills clock_in on a row that
// does not have one, so a racing clock-out is never overwritten.
func (s *AttendanceStore) ClockIn(ctx context.Context, eventID, memberID, name string, at time.Time) error {
	ms := toMs(at)
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO attendees(event_id, member_id, name, clock_in_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(event_id, member_id) DO UPDATE SET
  name          = excluded.name,
  clock_in_ms   = excluded.clock_in_ms,
  updated_at_ms = excluded.updated_at_ms
WHERE attendees.clock_in_ms IS NULL;
`, eventID, memberID, name, ms, ms)
		if err != nil {
			return fmt.Errorf("ClockIn upsert: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrAlreadyClockedIn
		}
		return nil
	})
}

func (s *AttendanceStore) ClockOut(ctx context.Context, eventID, memberID string, at time.Time) (time.Time, error) {
	ms := toMs(at)
	var stored int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE attendees
SET clock_out_ms  = MAX(?, clock_in_ms),
    updated_at_ms = ?
WHERE event_id = ? AND member_id = ?
  AND clock_in_ms IS NOT NULL
  AND clock_out_ms IS NULL;
`, ms, ms, eventID, memberID)
		if err != nil {
			return fmt.Errorf("ClockOut update: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return diagnoseClockOut(ctx, tx, eventID, memberID)
		}
		if err := tx.QueryRowContext(ctx, `
SELECT clock_out_ms FROM attendees WHERE event_id = ? AND member_id = ?;
`, eventID, memberID).Scan(&stored); err != nil {
			return fmt.Errorf("ClockOut read back: %w", err)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return fromMs(stored), nil
}

// diagnoseClockOut explains why the conditional clock-out matched no row.
// Must be called inside the same transaction.
func diagnoseClockOut(ctx context.Context, tx *sql.Tx, eventID, memberID string) error {
	var in, out sql.NullInt64
	err := tx.QueryRowContext(ctx, `
SELECT clock_in_ms, clock_out_ms FROM attendees WHERE event_id = ? AND member_id = ?;
`, eventID, memberID).Scan(&in, &out)
	switch {
	case err == sql.ErrNoRows:
		return store.ErrNotClockedIn
	case err != nil:
		return fmt.Errorf("ClockOut diagnose: %w", err)
	case !in.Valid:
		return store.ErrNotClockedIn
	default:
		return store.ErrAlreadyCompleted
	}
}

func (s *AttendanceStore) Invite(ctx context.Context, eventID, memberID, name string, at time.Time) error {
	ms := toMs(at)
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO attendees(event_id, member_id, name, invited_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?);
`, eventID, memberID, name, ms, ms); err != nil {
			return fmt.Errorf("Invite: %w", err)
		}
		return nil
	})
}

func (s *AttendanceStore) ListEventAttendance(ctx context.Context, eventID string) ([]types.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+attendeeColumns+`
FROM attendees
WHERE event_id = ?
ORDER BY name, member_id;
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("ListEventAttendance: %w", err)
	}
	defer rows.Close()

	var out []types.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("ListEventAttendance scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *AttendanceStore) CountOrphaned(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM attendees a
LEFT JOIN events e ON e.event_id = a.event_id
WHERE e.event_id IS NULL;
`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountOrphaned: %w", err)
	}
	return n, nil
}

func scanAttendee(sc scanner) (types.AttendanceRecord, error) {
	var (
		rec              types.AttendanceRecord
		invited, in, out sql.NullInt64
	)
	if err := sc.Scan(&rec.EventID, &rec.MemberID, &rec.Name, &invited, &in, &out); err != nil {
		return types.AttendanceRecord{}, err
	}
	rec.InvitedAt = fromNullMs(invited)
	rec.ClockIn = fromNullMs(in)
	rec.ClockOut = fromNullMs(out)
	return rec, nil
}
