package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// AttendanceQuery produces per-event and per-member attendance views. It does
// no access control of its own; transports call AuthorizeAttendanceView.
type AttendanceQuery struct {
	store  store.AttendanceStore
	feed   *AttendanceFeed
	logger *log.Logger
}

func NewAttendanceQuery(st store.AttendanceStore, feed *AttendanceFeed, logger *log.Logger) *AttendanceQuery {
	return &AttendanceQuery{store: st, feed: feed, logger: logger}
}

// ListEventAttendance returns the event's records ordered by name. With
// checkedInOnly, invitations nobody has clocked in for are dropped.
func (q *AttendanceQuery) ListEventAttendance(ctx context.Context, eventID string, checkedInOnly bool) ([]types.AttendanceRecord, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidEventID
	}

	recs, err := q.store.ListEventAttendance(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: list event %s: %w", ErrLookupFailure, eventID, err)
	}
	if !checkedInOnly {
		return recs, nil
	}

	out := recs[:0]
	for _, r := range recs {
		if r.ClockIn != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListMemberAttendance fetches memberID's record for each event in turn.
// Events without a record are left out of the result.
func (q *AttendanceQuery) ListMemberAttendance(ctx context.Context, memberID string, eventIDs []string) ([]types.EventAttendance, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, ErrInvalidMemberID
	}

	out := make([]types.EventAttendance, 0, len(eventIDs))
	for _, eventID := range eventIDs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLookupFailure, err)
		}
		rec, err := q.store.GetAttendance(ctx, eventID, memberID)
		if err != nil {
			return nil, fmt.Errorf("%w: event %s member %s: %w", ErrLookupFailure, eventID, memberID, err)
		}
		if rec == nil {
			continue
		}
		out = append(out, types.EventAttendance{EventID: eventID, Record: *rec})
	}
	return out, nil
}

// Subscribe opens a live feed of the event's attendance. The current set is
// available on C immediately; a fresh full set follows every change.
func (q *AttendanceQuery) Subscribe(ctx context.Context, eventID string, checkedInOnly bool) (*Subscription, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidEventID
	}

	// Register before the first read so no change between the two is missed.
	wake := q.feed.register(eventID)

	snap, err := q.ListEventAttendance(ctx, eventID, checkedInOnly)
	if err != nil {
		q.feed.unregister(eventID, wake)
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)
	sub.deliver(snap)

	go q.watch(ctx, sub, eventID, checkedInOnly, wake)
	return sub, nil
}

func (q *AttendanceQuery) watch(ctx context.Context, sub *Subscription, eventID string, checkedInOnly bool, wake chan struct{}) {
	defer close(sub.done)
	defer close(sub.c)
	defer q.feed.unregister(eventID, wake)

	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}

		snap, err := q.ListEventAttendance(ctx, eventID, checkedInOnly)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.logger.Printf("attendance feed %s stopped: %v", eventID, err)
			sub.fail(err)
			return
		}
		sub.deliver(snap)
	}
}
