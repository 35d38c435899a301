package store

import (
	"context"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type UserStore interface {
	// CreateUser fails with ErrDuplicate when the username is taken.
	CreateUser(ctx context.Context, u types.User) error
	GetUserByUsername(ctx context.Context, username string) (types.User, error)
	// UpdatePassword replaces the stored hash; ErrNotFound for an unknown user.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
