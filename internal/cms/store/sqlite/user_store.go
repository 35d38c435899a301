package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
	dbpkg "github.com/Raj051299/cms-mobile-app/internal/db"
)

type UserStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewUserStore(db *sql.DB, writer *dbpkg.Worker) *UserStore {
	return &UserStore{db: db, writer: writer}
}

func (s *UserStore) CreateUser(ctx context.Context, u types.User) error {
	var memberID any
	if u.MemberID != "" {
		memberID = u.MemberID
	}
	var admin int
	if u.IsAdmin {
		admin = 1
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO users(user_id, username, password_hash, is_admin, member_id, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?);
`, u.ID, u.Username, u.PasswordHash, admin, memberID, toMs(u.CreatedAt))
		if err != nil {
			return fmt.Errorf("CreateUser insert: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrDuplicate
		}
		return nil
	})
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (types.User, error) {
	var (
		u         types.User
		admin     int
		memberID  sql.NullString
		createdMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT user_id, username, password_hash, is_admin, member_id, created_at_ms
FROM users
WHERE username = ?;
`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &admin, &memberID, &createdMs)
	if err == sql.ErrNoRows {
		return types.User{}, store.ErrNotFound
	}
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByUsername: %w", err)
	}
	u.IsAdmin = admin == 1
	u.MemberID = memberID.String
	u.CreatedAt = fromMs(createdMs)
	return u, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE username = ?;`, passwordHash, username)
		if err != nil {
			return fmt.Errorf("UpdatePassword: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}
