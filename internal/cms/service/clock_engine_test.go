package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// ── Transitions ─────────────────────────────────────────────────────────────

func TestClock_ClockInFromNothing(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")
	ctx := context.Background()

	act, err := h.engine.ResolveAction(ctx, adminSession, "E", "M")
	require.NoError(t, err)
	assert.Equal(t, types.ActionClockIn, act)

	require.NoError(t, h.clockAt(t0, "E", "M", "Alice", types.ActionClockIn))

	act, err = h.engine.ResolveAction(ctx, adminSession, "E", "M")
	require.NoError(t, err)
	assert.Equal(t, types.ActionClockOut, act)

	rec, _ := h.attendance.GetAttendance(ctx, "E", "M")
	require.NotNil(t, rec)
	assert.Equal(t, "Alice", rec.Name)
	assert.True(t, rec.ClockIn.Equal(t0))
}

func TestClock_ClockOutWithoutRecordRejected(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")

	err := h.clockAt(t0, "E", "M", "Alice", types.ActionClockOut)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	rec, err := h.attendance.GetAttendance(context.Background(), "E", "M")
	require.NoError(t, err)
	assert.Nil(t, rec, "store must be unchanged")
}

// ── Transition guards ───────────────────────────────────────────────────────

func TestClock_FullCycleThenDone(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")
	ctx := context.Background()

	require.NoError(t, h.clockAt(t0, "E", "M", "Alice", types.ActionClockIn))
	require.NoError(t, h.clockAt(t0.Add(time.Hour), "E", "M", "Alice", types.ActionClockOut))

	act, err := h.engine.ResolveAction(ctx, adminSession, "E", "M")
	require.NoError(t, err)
	assert.Equal(t, types.ActionDone, act)

	for _, a := range []types.Action{types.ActionClockIn, types.ActionClockOut, types.ActionDone, "bogus"} {
		err := h.clockAt(t0.Add(2*time.Hour), "E", "M", "Alice", a)
		assert.ErrorIs(t, err, service.ErrInvalidTransition, "action %q on a done record", a)
	}

	rec, _ := h.attendance.GetAttendance(ctx, "E", "M")
	assert.True(t, rec.ClockOut.Equal(t0.Add(time.Hour)), "completed record must not change")
}

func TestClock_DoubleClockInRejected(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")

	require.NoError(t, h.clockAt(t0, "E", "M", "Alice", types.ActionClockIn))
	err := h.clockAt(t0.Add(time.Minute), "E", "M", "Alice", types.ActionClockIn)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assert.ErrorIs(t, err, store.ErrAlreadyClockedIn)
}

func TestClock_ClockOutClampedWhenClockMovesBackwards(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")

	require.NoError(t, h.clockAt(t0, "E", "M", "Alice", types.ActionClockIn))
	require.NoError(t, h.clockAt(t0.Add(-5*time.Minute), "E", "M", "Alice", types.ActionClockOut))

	rec, _ := h.attendance.GetAttendance(context.Background(), "E", "M")
	assert.False(t, rec.ClockOut.Before(*rec.ClockIn))
	assert.Zero(t, rec.Hours())
}

func TestClock_NameFallsBackToRoster(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice Roster")

	require.NoError(t, h.clockAt(t0, "E", "M", "  ", types.ActionClockIn))
	rec, _ := h.attendance.GetAttendance(context.Background(), "E", "M")
	assert.Equal(t, "Alice Roster", rec.Name)
}

// ── Session & lookup errors ─────────────────────────────────────────────────

func TestClock_RequiresAdmin(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")
	ctx := context.Background()

	err := h.engine.ApplyAction(ctx, userSession, "E", "M", "Alice", types.ActionClockIn)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = h.engine.ApplyAction(ctx, types.Session{}, "E", "M", "Alice", types.ActionClockIn)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = h.engine.ResolveAction(ctx, types.Session{}, "E", "M")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestClock_UnknownEventOrMember(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")

	assert.ErrorIs(t, h.clockAt(t0, "nope", "M", "Alice", types.ActionClockIn), store.ErrNotFound)
	assert.ErrorIs(t, h.clockAt(t0, "E", "nope", "Alice", types.ActionClockIn), store.ErrNotFound)
	assert.ErrorIs(t, h.clockAt(t0, "", "M", "Alice", types.ActionClockIn), service.ErrInvalidEventID)
	assert.ErrorIs(t, h.clockAt(t0, "E", " ", "Alice", types.ActionClockIn), service.ErrInvalidInput)
}

func TestClock_ResolveLookupFailure(t *testing.T) {
	var flaky *flakyAttendance
	h := newHarness(withAttendance(func(s store.AttendanceStore) store.AttendanceStore {
		flaky = newFlaky(s)
		return flaky
	}))
	flaky.failAfter.Store(0)

	act, err := h.engine.ResolveAction(context.Background(), adminSession, "E", "M")
	assert.ErrorIs(t, err, service.ErrLookupFailure)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, act, "no default state on failure")
}

// ── Side effects ────────────────────────────────────────────────────────────

func TestClock_RecordsAudit(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M", "Alice")

	require.NoError(t, h.clockAt(t0, "E", "M", "Alice", types.ActionClockIn))
	_ = h.clockAt(t0, "E", "M", "Alice", types.ActionClockIn)

	entries := h.audit.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ok", entries[0].Outcome)
	assert.Equal(t, adminSession.UserID, entries[0].OperatorID)
	assert.Equal(t, "already_clocked_in", entries[1].Outcome)
}

func TestClock_InviteShowsInFullViewOnly(t *testing.T) {
	h := newHarness()
	h.addEvent("E")
	h.addMember("M1", "Alice")
	h.addMember("M2", "Bob")
	ctx := context.Background()

	require.NoError(t, h.engine.Invite(ctx, adminSession, "E", "M2"))
	require.NoError(t, h.clockAt(t0, "E", "M1", "Alice", types.ActionClockIn))

	all, err := h.query.ListEventAttendance(ctx, "E", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	checkedIn, err := h.query.ListEventAttendance(ctx, "E", true)
	require.NoError(t, err)
	require.Len(t, checkedIn, 1)
	assert.Equal(t, "M1", checkedIn[0].MemberID)

	act, err := h.engine.ResolveAction(ctx, adminSession, "E", "M2")
	require.NoError(t, err)
	assert.Equal(t, types.ActionClockIn, act, "an invitation is still absent")
}
