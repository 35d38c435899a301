package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
	dbpkg "github.com/Raj051299/cms-mobile-app/internal/db"
)

type MemberStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewMemberStore(db *sql.DB, writer *dbpkg.Worker) *MemberStore {
	return &MemberStore{db: db, writer: writer}
}

const memberColumns = `member_id, name, email, mobile, address, dob_ms, relationship, interests, photo_url, created_at_ms, updated_at_ms`

func (s *MemberStore) CreateMember(ctx context.Context, m types.Member) error {
	interests, err := json.Marshal(nonNil(m.Interests))
	if err != nil {
		return fmt.Errorf("CreateMember encode interests: %w", err)
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO members(`+memberColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, m.ID, m.Name, m.Email, m.Mobile, m.Address, nullableMs(m.DateOfBirth),
			m.Relationship, string(interests), m.PhotoURL, toMs(m.CreatedAt), toMs(m.UpdatedAt))
		if err != nil {
			return fmt.Errorf("CreateMember insert: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrDuplicate
		}
		return nil
	})
}

func (s *MemberStore) GetMember(ctx context.Context, id string) (types.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE member_id = ?;`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return types.Member{}, store.ErrNotFound
	}
	if err != nil {
		return types.Member{}, fmt.Errorf("GetMember: %w", err)
	}
	return m, nil
}

func (s *MemberStore) UpdateMember(ctx context.Context, m types.Member) error {
	interests, err := json.Marshal(nonNil(m.Interests))
	if err != nil {
		return fmt.Errorf("UpdateMember encode interests: %w", err)
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE members
SET name = ?, email = ?, mobile = ?, address = ?, dob_ms = ?,
    relationship = ?, interests = ?, photo_url = ?, updated_at_ms = ?
WHERE member_id = ?;
`, m.Name, m.Email, m.Mobile, m.Address, nullableMs(m.DateOfBirth),
			m.Relationship, string(interests), m.PhotoURL, toMs(m.UpdatedAt), m.ID)
		if err != nil {
			return fmt.Errorf("UpdateMember: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *MemberStore) DeleteMember(ctx context.Context, id string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM members WHERE member_id = ?;`, id)
		if err != nil {
			return fmt.Errorf("DeleteMember: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *MemberStore) ListMembers(ctx context.Context) ([]types.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY name, member_id;`)
	if err != nil {
		return nil, fmt.Errorf("ListMembers: %w", err)
	}
	defer rows.Close()

	var out []types.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("ListMembers scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MemberStore) FindByContact(ctx context.Context, contact string) (types.Member, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return types.Member{}, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
SELECT `+memberColumns+`
FROM members
WHERE (email <> '' AND email = ?) OR (mobile <> '' AND mobile = ?)
ORDER BY created_at_ms
LIMIT 1;
`, contact, contact)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return types.Member{}, store.ErrNotFound
	}
	if err != nil {
		return types.Member{}, fmt.Errorf("FindByContact: %w", err)
	}
	return m, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(sc scanner) (types.Member, error) {
	var (
		m                types.Member
		dob              sql.NullInt64
		interests        string
		createdMs, updMs int64
	)
	if err := sc.Scan(&m.ID, &m.Name, &m.Email, &m.Mobile, &m.Address, &dob,
		&m.Relationship, &interests, &m.PhotoURL, &createdMs, &updMs); err != nil {
		return types.Member{}, err
	}
	m.DateOfBirth = fromNullMs(dob)
	m.CreatedAt = fromMs(createdMs)
	m.UpdatedAt = fromMs(updMs)
	if interests != "" {
		if err := json.Unmarshal([]byte(interests), &m.Interests); err != nil {
			return types.Member{}, fmt.Errorf("decode interests: %w", err)
		}
	}
	if len(m.Interests) == 0 {
		m.Interests = nil
	}
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
