package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// EventCatalog serves events to any signed-in user and lets admins edit them.
// Deleting an event leaves its attendance in place; OrphanAuditor reports
// what is left behind.
type EventCatalog struct {
	store store.EventStore
	now   func() time.Time
}

func NewEventCatalog(st store.EventStore) *EventCatalog {
	return &EventCatalog{store: st, now: func() time.Time { return time.Now().UTC() }}
}

func (c *EventCatalog) Get(ctx context.Context, sess types.Session, id string) (types.Event, error) {
	if err := requireSession(sess); err != nil {
		return types.Event{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Event{}, ErrInvalidEventID
	}
	return c.store.GetEvent(ctx, id)
}

func (c *EventCatalog) List(ctx context.Context, sess types.Session) ([]types.Event, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return c.store.ListEvents(ctx)
}

func (c *EventCatalog) Create(ctx context.Context, sess types.Session, in types.EventInput) (types.Event, error) {
	if err := requireAdmin(sess); err != nil {
		return types.Event{}, err
	}
	in, err := normalizeEvent(in)
	if err != nil {
		return types.Event{}, err
	}

	now := c.now()
	e := applyEventInput(types.Event{ID: uuid.NewString(), CreatedAt: now}, in)
	e.UpdatedAt = now
	if err := c.store.CreateEvent(ctx, e); err != nil {
		return types.Event{}, err
	}
	return e, nil
}

func (c *EventCatalog) Update(ctx context.Context, sess types.Session, id string, in types.EventInput) (types.Event, error) {
	if err := requireAdmin(sess); err != nil {
		return types.Event{}, err
	}
	in, err := normalizeEvent(in)
	if err != nil {
		return types.Event{}, err
	}

	existing, err := c.store.GetEvent(ctx, strings.TrimSpace(id))
	if err != nil {
		return types.Event{}, err
	}
	e := applyEventInput(existing, in)
	e.UpdatedAt = c.now()
	if err := c.store.UpdateEvent(ctx, e); err != nil {
		return types.Event{}, err
	}
	return e, nil
}

func (c *EventCatalog) Delete(ctx context.Context, sess types.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return c.store.DeleteEvent(ctx, strings.TrimSpace(id))
}

func normalizeEvent(in types.EventInput) (types.EventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, ErrInvalidEventTitle
	}
	if in.ScheduledAt.IsZero() {
		return in, ErrInvalidEventSchedule
	}
	in.ScheduledAt = in.ScheduledAt.UTC()
	return in, nil
}

func applyEventInput(e types.Event, in types.EventInput) types.Event {
	e.Title = in.Title
	e.ScheduledAt = in.ScheduledAt
	e.Location = strings.TrimSpace(in.Location)
	e.Description = strings.TrimSpace(in.Description)
	e.ImageURL = strings.TrimSpace(in.ImageURL)
	return e
}
