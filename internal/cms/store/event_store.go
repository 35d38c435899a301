package store

import (
	"context"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type EventStore interface {
	CreateEvent(ctx context.Context, e types.Event) error
	GetEvent(ctx context.Context, id string) (types.Event, error)
	UpdateEvent(ctx context.Context, e types.Event) error
	// DeleteEvent removes the event only; its attendance rows are left behind.
	DeleteEvent(ctx context.Context, id string) error
	// ListEvents returns events ordered by scheduled time.
	ListEvents(ctx context.Context) ([]types.Event, error)
}
