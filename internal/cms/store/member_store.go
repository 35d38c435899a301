package store

import (
	"context"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type MemberStore interface {
	CreateMember(ctx context.Context, m types.Member) error
	GetMember(ctx context.Context, id string) (types.Member, error)
	UpdateMember(ctx context.Context, m types.Member) error
	DeleteMember(ctx context.Context, id string) error
	// ListMembers returns the roster ordered by name.
	ListMembers(ctx context.Context) ([]types.Member, error)
	// FindByContact looks a member up by exact email or mobile.
	FindByContact(ctx context.Context, contact string) (types.Member, error)
}
