package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
	dbpkg "github.com/Raj051299/cms-mobile-app/internal/db"
)

type EventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEventStore(db *sql.DB, writer *dbpkg.Worker) *EventStore {
	return &EventStore{db: db, writer: writer}
}

const eventColumns = `event_id, title, scheduled_at_ms, location, description, image_url, created_at_ms, updated_at_ms`

func (s *EventStore) CreateEvent(ctx context.Context, e types.Event) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO events(`+eventColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`, e.ID, e.Title, toMs(e.ScheduledAt), e.Location, e.Description, e.ImageURL,
			toMs(e.CreatedAt), toMs(e.UpdatedAt))
		if err != nil {
			return fmt.Errorf("CreateEvent insert: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrDuplicate
		}
		return nil
	})
}

func (s *EventStore) GetEvent(ctx context.Context, id string) (types.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE event_id = ?;`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return types.Event{}, store.ErrNotFound
	}
	if err != nil {
		return types.Event{}, fmt.Errorf("GetEvent: %w", err)
	}
	return e, nil
}

func (s *EventStore) UpdateEvent(ctx context.Context, e types.Event) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE events
SET title = ?, scheduled_at_ms = ?, location = ?, description = ?, image_url = ?, updated_at_ms = ?
WHERE event_id = ?;
`, e.Title, toMs(e.ScheduledAt), e.Location, e.Description, e.ImageURL, toMs(e.UpdatedAt), e.ID)
		if err != nil {
			return fmt.Errorf("UpdateEvent: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// DeleteEvent does not cascade into attendees; see CountOrphaned.
func (s *EventStore) DeleteEvent(ctx context.Context, id string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE event_id = ?;`, id)
		if err != nil {
			return fmt.Errorf("DeleteEvent: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *EventStore) ListEvents(ctx context.Context) ([]types.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY scheduled_at_ms, event_id;`)
	if err != nil {
		return nil, fmt.Errorf("ListEvents: %w", err)
	}
	defer rows.Close()

	var out []types.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("ListEvents scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvent(sc scanner) (types.Event, error) {
	var (
		e                         types.Event
		schedMs, createdMs, updMs int64
	)
	if err := sc.Scan(&e.ID, &e.Title, &schedMs, &e.Location, &e.Description, &e.ImageURL, &createdMs, &updMs); err != nil {
		return types.Event{}, err
	}
	e.ScheduledAt = fromMs(schedMs)
	e.CreatedAt = fromMs(createdMs)
	e.UpdatedAt = fromMs(updMs)
	return e, nil
}
