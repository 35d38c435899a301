package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

const tracerName = "github.com/Raj051299/cms-mobile-app/internal/cms/service"

// ClockDependencies wires a ClockEngine. Notifier and Now are optional.
type ClockDependencies struct {
	Attendance store.AttendanceStore
	Events     store.EventStore
	Members    store.MemberStore
	Audit      store.ClockAuditStore
	Notifier   AttendanceNotifier
	Logger     *log.Logger

	// Now is the server clock; every stored timestamp comes from it.
	Now func() time.Time
}

// ClockEngine drives the clockIn → clockOut → done state machine for one
// (event, member) pair at a time.
type ClockEngine struct {
	attendance store.AttendanceStore
	events     store.EventStore
	members    store.MemberStore
	audit      store.ClockAuditStore
	notifier   AttendanceNotifier
	logger     *log.Logger
	now        func() time.Time
	tracer     trace.Tracer
}

func NewClockEngine(deps ClockDependencies) *ClockEngine {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ClockEngine{
		attendance: deps.Attendance,
		events:     deps.Events,
		members:    deps.Members,
		audit:      deps.Audit,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		now:        now,
		tracer:     otel.Tracer(tracerName),
	}
}

// ResolveAction reports which transition an operator may take next. It
// never writes.
func (e *ClockEngine) ResolveAction(ctx context.Context, sess types.Session, eventID, memberID string) (types.Action, error) {
	if err := requireSession(sess); err != nil {
		return "", err
	}
	eventID, memberID, err := normalizePair(eventID, memberID)
	if err != nil {
		return "", err
	}

	rec, err := e.attendance.GetAttendance(ctx, eventID, memberID)
	if err != nil {
		return "", fmt.Errorf("%w: event %s member %s: %w", ErrLookupFailure, eventID, memberID, err)
	}
	return types.NextAction(types.StateOf(rec)), nil
}

// ApplyAction performs action for the pair using the server clock. clockIn
// never disturbs an existing record's clock-out, and clockOut only succeeds
// on a record that is currently clocked in. Both are single conditional
// writes, so two operators racing on the same member cannot both win.
func (e *ClockEngine) ApplyAction(ctx context.Context, sess types.Session, eventID, memberID, memberName string, action types.Action) (err error) {
	ctx, span := e.tracer.Start(ctx, "clock.apply",
		trace.WithAttributes(
			attribute.String("event.id", eventID),
			attribute.String("member.id", memberID),
			attribute.String("clock.action", string(action)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := requireAdmin(sess); err != nil {
		return err
	}
	eventID, memberID, err = normalizePair(eventID, memberID)
	if err != nil {
		return err
	}
	if action != types.ActionClockIn && action != types.ActionClockOut {
		e.logger.Printf("clock: invalid transition event=%s member=%s action=%q operator=%s",
			eventID, memberID, action, sess.UserID)
		e.recordAudit(ctx, sess, eventID, memberID, action, "invalid_action")
		return fmt.Errorf("%w: action %q", ErrInvalidTransition, action)
	}

	name, err := e.resolveTarget(ctx, eventID, memberID, memberName)
	if err != nil {
		return err
	}

	now := e.now().UTC()
	switch action {
	case types.ActionClockIn:
		err = e.attendance.ClockIn(ctx, eventID, memberID, name, now)
	case types.ActionClockOut:
		var stored time.Time
		stored, err = e.attendance.ClockOut(ctx, eventID, memberID, now)
		if err == nil && !stored.Equal(now) {
			e.logger.Printf("clock: clock-out for event=%s member=%s clamped to clock-in %s",
				eventID, memberID, stored.Format(time.RFC3339))
		}
	}

	if err != nil {
		if isTransitionConflict(err) {
			e.logger.Printf("clock: invalid transition event=%s member=%s action=%s operator=%s: %v",
				eventID, memberID, action, sess.UserID, err)
			e.recordAudit(ctx, sess, eventID, memberID, action, transitionReason(err))
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		return fmt.Errorf("%w: %s event %s member %s: %w", ErrLookupFailure, action, eventID, memberID, err)
	}

	e.recordAudit(ctx, sess, eventID, memberID, action, "ok")
	if e.notifier != nil {
		e.notifier.Notify(eventID)
	}
	return nil
}

// Invite pre-registers memberID as expected at eventID. The record shows up
// in the full attendance view but not the checked-in view, and does not
// change what ResolveAction returns.
func (e *ClockEngine) Invite(ctx context.Context, sess types.Session, eventID, memberID string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	eventID, memberID, err := normalizePair(eventID, memberID)
	if err != nil {
		return err
	}

	name, err := e.resolveTarget(ctx, eventID, memberID, "")
	if err != nil {
		return err
	}
	if err := e.attendance.Invite(ctx, eventID, memberID, name, e.now().UTC()); err != nil {
		return fmt.Errorf("%w: invite event %s member %s: %w", ErrLookupFailure, eventID, memberID, err)
	}
	if e.notifier != nil {
		e.notifier.Notify(eventID)
	}
	return nil
}

// resolveTarget checks the event and member exist and returns the display
// name to store, preferring the caller's.
func (e *ClockEngine) resolveTarget(ctx context.Context, eventID, memberID, memberName string) (string, error) {
	if _, err := e.events.GetEvent(ctx, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("event %s: %w", eventID, err)
		}
		return "", fmt.Errorf("%w: event %s: %w", ErrLookupFailure, eventID, err)
	}
	m, err := e.members.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("member %s: %w", memberID, err)
		}
		return "", fmt.Errorf("%w: member %s: %w", ErrLookupFailure, memberID, err)
	}

	if name := strings.TrimSpace(memberName); name != "" {
		return name, nil
	}
	return m.Name, nil
}

// recordAudit appends to the clock audit log. A failed audit write is logged
// and otherwise ignored so the operator still gets the clock result.
func (e *ClockEngine) recordAudit(ctx context.Context, sess types.Session, eventID, memberID string, action types.Action, outcome string) {
	if e.audit == nil {
		return
	}
	err := e.audit.RecordClock(ctx, store.ClockAuditEntry{
		EventID:    eventID,
		MemberID:   memberID,
		Action:     string(action),
		OperatorID: sess.UserID,
		Outcome:    outcome,
		At:         e.now().UTC(),
	})
	if err != nil {
		e.logger.Printf("clock audit write failed event=%s member=%s: %v", eventID, memberID, err)
	}
}

func normalizePair(eventID, memberID string) (string, string, error) {
	eventID = strings.TrimSpace(eventID)
	memberID = strings.TrimSpace(memberID)
	if eventID == "" {
		return "", "", ErrInvalidEventID
	}
	if memberID == "" {
		return "", "", ErrInvalidMemberID
	}
	return eventID, memberID, nil
}

func isTransitionConflict(err error) bool {
	return errors.Is(err, store.ErrAlreadyClockedIn) ||
		errors.Is(err, store.ErrNotClockedIn) ||
		errors.Is(err, store.ErrAlreadyCompleted)
}

func transitionReason(err error) string {
	switch {
	case errors.Is(err, store.ErrAlreadyClockedIn):
		return "already_clocked_in"
	case errors.Is(err, store.ErrNotClockedIn):
		return "not_clocked_in"
	case errors.Is(err, store.ErrAlreadyCompleted):
		return "already_completed"
	}
	return "rejected"
}
