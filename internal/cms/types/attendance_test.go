package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

func ptr(t time.Time) *time.Time { return &t }

func TestStateOf_Table(t *testing.T) {
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)

	cases := []struct {
		name string
		rec  *types.AttendanceRecord
		want types.Action
	}{
		{"no record", nil, types.ActionClockIn},
		{"invitation only", &types.AttendanceRecord{InvitedAt: ptr(in)}, types.ActionClockIn},
		{"clocked in", &types.AttendanceRecord{ClockIn: ptr(in)}, types.ActionClockOut},
		{"completed", &types.AttendanceRecord{ClockIn: ptr(in), ClockOut: ptr(out)}, types.ActionDone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, types.NextAction(types.StateOf(tc.rec)))
		})
	}
}

func TestCompletedHours_NeverNegative(t *testing.T) {
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := types.Completed{ClockIn: in, ClockOut: in.Add(-time.Hour)}
	assert.Zero(t, c.Hours())

	rec := types.AttendanceRecord{ClockIn: ptr(in), ClockOut: ptr(in.Add(2*time.Hour + 15*time.Minute))}
	assert.InDelta(t, 2.25, rec.Hours(), 1e-9)
}

func TestReportLine_ColumnsOrderAndRounding(t *testing.T) {
	line := types.ReportLine{
		MemberName: "Alice",
		TotalHours: 2.3333333,
		TotalPay:   46.666666,
		From:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	}

	cols := line.Columns()
	require.Len(t, cols, len(types.ReportColumns))
	for i, c := range cols {
		assert.Equal(t, types.ReportColumns[i], c.Name)
	}
	assert.Equal(t, "Alice", cols[0].Value)
	assert.Equal(t, 2.33, cols[1].Value)
	assert.Equal(t, 46.67, cols[2].Value)
	assert.Equal(t, "2026-01-01", cols[3].Value)
	assert.Equal(t, "2026-01-31", cols[4].Value)

	b, err := json.Marshal(line)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"member_id":"","member":"Alice","total_hours":2.33,"total_pay":46.67,"from":"2026-01-01","to":"2026-01-31"}`,
		string(b))
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{1.005, 1.01},
		{1.015, 1.02},
		{2.675, 2.68},
		{0.125, 0.13},
		{-1.005, -1.01},
		{2.3333333, 2.33},
		{46.666666, 46.67},
		{45, 45},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, types.Round2(c.in), "Round2(%v)", c.in)
	}
}
