package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

var anyAction = rapid.SampledFrom([]types.Action{
	types.ActionClockIn, types.ActionClockOut, types.ActionDone,
})

// ResolveAction always yields exactly one of the three actions, and once a
// pair has clocked out it stays done whatever else is attempted.
func TestProperty_StateMachineTotalAndMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness()
		ctx := context.Background()
		events := []string{"e1", "e2"}
		members := []string{"m1", "m2", "m3"}
		for _, e := range events {
			h.addEvent(e)
		}
		for _, m := range members {
			h.addMember(m, "Name "+m)
		}

		completed := map[string]bool{}
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		at := t0
		for i := 0; i < steps; i++ {
			e := rapid.SampledFrom(events).Draw(rt, "event")
			m := rapid.SampledFrom(members).Draw(rt, "member")
			a := anyAction.Draw(rt, "action")
			at = at.Add(time.Duration(rapid.IntRange(-30, 120).Draw(rt, "minutes")) * time.Minute)

			before, err := h.engine.ResolveAction(ctx, adminSession, e, m)
			require.NoError(rt, err)

			err = h.clockAt(at, e, m, "", a)
			if err == nil && a == types.ActionClockOut {
				completed[e+"/"+m] = true
			}
			if err == nil && a != before {
				rt.Fatalf("action %s succeeded but resolve said %s", a, before)
			}

			for _, ee := range events {
				for _, mm := range members {
					got, err := h.engine.ResolveAction(ctx, adminSession, ee, mm)
					require.NoError(rt, err)
					if !got.Valid() {
						rt.Fatalf("resolve returned %q", got)
					}
					if completed[ee+"/"+mm] && got != types.ActionDone {
						rt.Fatalf("%s/%s completed but resolves to %s", ee, mm, got)
					}
				}
			}
		}
	})
}

// A clock-out with no clock-in is always rejected and never creates a row.
func TestProperty_NoPrematureClockOut(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness()
		h.addEvent("E")
		h.addMember("M", "Alice")

		invited := rapid.Bool().Draw(rt, "invited")
		if invited {
			require.NoError(rt, h.engine.Invite(context.Background(), adminSession, "E", "M"))
		}

		at := t0.Add(time.Duration(rapid.IntRange(0, 10000).Draw(rt, "offset")) * time.Minute)
		err := h.clockAt(at, "E", "M", "Alice", types.ActionClockOut)
		require.ErrorIs(rt, err, service.ErrInvalidTransition)

		rec, err := h.attendance.GetAttendance(context.Background(), "E", "M")
		require.NoError(rt, err)
		if rec != nil && rec.ClockIn != nil {
			rt.Fatalf("rejected clock-out created a clock-in: %+v", rec)
		}
		if !invited && rec != nil {
			rt.Fatalf("rejected clock-out created a record: %+v", rec)
		}
	})
}

// Stored intervals are never negative and neither are report totals, even
// when the server clock jumps backwards between clock-in and clock-out.
func TestProperty_IntervalsNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness()
		h.addMember("M", "Alice")
		n := rapid.IntRange(1, 6).Draw(rt, "events")
		for i := 0; i < n; i++ {
			e := fmt.Sprintf("e%d", i)
			h.addEvent(e)
			in := t0.Add(time.Duration(i) * 24 * time.Hour)
			delta := time.Duration(rapid.IntRange(-600, 600).Draw(rt, "delta")) * time.Minute
			require.NoError(rt, h.clockAt(in, e, "M", "Alice", types.ActionClockIn))
			require.NoError(rt, h.clockAt(in.Add(delta), e, "M", "Alice", types.ActionClockOut))

			rec, _ := h.attendance.GetAttendance(context.Background(), e, "M")
			if rec.ClockOut.Before(*rec.ClockIn) {
				rt.Fatalf("clock-out %v before clock-in %v", rec.ClockOut, rec.ClockIn)
			}
		}

		rep, err := h.reports.GenerateReport(context.Background(), adminSession, types.ReportRequest{
			Start: t0.AddDate(0, 0, -1), End: t0.AddDate(0, 0, n+1), HourlyRate: 15,
		})
		require.NoError(rt, err)
		for _, l := range rep.Lines {
			if l.TotalHours < 0 || l.TotalPay < 0 {
				rt.Fatalf("negative totals: %+v", l)
			}
		}
	})
}

// Splitting a range into two adjacent, non-overlapping day ranges splits the
// totals exactly.
func TestProperty_AggregationAdditive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness()
		h.addMember("M", "Alice")

		n := rapid.IntRange(0, 12).Draw(rt, "events")
		for i := 0; i < n; i++ {
			e := fmt.Sprintf("e%d", i)
			h.addEvent(e)
			day := rapid.IntRange(0, 9).Draw(rt, "day")
			minute := rapid.IntRange(0, 23*60).Draw(rt, "minute")
			dur := rapid.IntRange(0, 600).Draw(rt, "duration")
			in := time.Date(2026, 4, 1+day, 0, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
			require.NoError(rt, h.clockAt(in, e, "M", "Alice", types.ActionClockIn))
			require.NoError(rt, h.clockAt(in.Add(time.Duration(dur)*time.Minute), e, "M", "Alice", types.ActionClockOut))
		}

		a := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
		split := rapid.IntRange(0, 8).Draw(rt, "split")
		b := a.AddDate(0, 0, split)
		c := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

		total := hoursFor(rt, h, a, c)
		left := hoursFor(rt, h, a, b)
		right := hoursFor(rt, h, b.AddDate(0, 0, 1), c)
		assert.InDelta(rt, total, left+right, 1e-9)
	})
}

// Identical requests over unchanged data produce identical lines.
func TestProperty_ReportDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness()
		h.addEvent("E")
		names := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z]{1,6}`), 1, 8).Draw(rt, "names")
		for i, name := range names {
			id := fmt.Sprintf("m%02d", i)
			h.addMember(id, name)
			if rapid.Bool().Draw(rt, "attended") {
				require.NoError(rt, h.clockAt(t0, "E", id, name, types.ActionClockIn))
				require.NoError(rt, h.clockAt(t0.Add(time.Duration(i+1)*17*time.Minute), "E", id, name, types.ActionClockOut))
			}
		}

		req := types.ReportRequest{Start: t0, End: t0, HourlyRate: 12.5}
		first, err := h.reports.GenerateReport(context.Background(), adminSession, req)
		require.NoError(rt, err)
		second, err := h.reports.GenerateReport(context.Background(), adminSession, req)
		require.NoError(rt, err)

		require.Len(rt, first.Lines, len(names))
		assert.Equal(rt, first.Lines, second.Lines)
	})
}

func hoursFor(rt *rapid.T, h *harness, start, end time.Time) float64 {
	rep, err := h.reports.GenerateReport(context.Background(), adminSession, types.ReportRequest{
		MemberIDs: []string{"M"}, Start: start, End: end, HourlyRate: 1,
	})
	require.NoError(rt, err)
	require.Len(rt, rep.Lines, 1)
	return rep.Lines[0].TotalHours
}
