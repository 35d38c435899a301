package types

import "time"

// Action is the next clock transition for an (event, member) pair.
type Action string

const (
	ActionClockIn  Action = "clockIn"
	ActionClockOut Action = "clockOut"
	ActionDone     Action = "done"
)

func (a Action) Valid() bool {
	switch a {
	case ActionClockIn, ActionClockOut, ActionDone:
		return true
	}
	return false
}

// AttendanceRecord is the stored row for one (event, member) pair.
// A record with only InvitedAt set is an invitation nobody has acted on yet.
type AttendanceRecord struct {
	EventID   string     `json:"event_id"`
	MemberID  string     `json:"member_id"`
	Name      string     `json:"name"`
	InvitedAt *time.Time `json:"invited_at,omitempty"`
	ClockIn   *time.Time `json:"clock_in,omitempty"`
	ClockOut  *time.Time `json:"clock_out,omitempty"`
}

// Hours is the completed interval length in fractional hours, or 0 for
// anything that is not completed.
func (r AttendanceRecord) Hours() float64 {
	c, ok := StateOf(&r).(Completed)
	if !ok {
		return 0
	}
	return c.Hours()
}

// EventAttendance pairs a record with the event it belongs to.
type EventAttendance struct {
	EventID string           `json:"event_id"`
	Record  AttendanceRecord `json:"record"`
}

// AttendanceState is the closed set {Absent, ClockedIn, Completed}.
type AttendanceState interface {
	attendanceState()
}

// Absent: no record, or an invitation without a clock-in.
type Absent struct{}

type ClockedIn struct {
	Name    string
	ClockIn time.Time
}

type Completed struct {
	Name     string
	ClockIn  time.Time
	ClockOut time.Time
}

func (Absent) attendanceState()    {}
func (ClockedIn) attendanceState() {}
func (Completed) attendanceState() {}

// Hours never goes negative even if a row was written with skewed clocks.
func (c Completed) Hours() float64 {
	d := c.ClockOut.Sub(c.ClockIn)
	if d <= 0 {
		return 0
	}
	return d.Hours()
}

// StateOf classifies a stored record. nil means no record exists.
func StateOf(rec *AttendanceRecord) AttendanceState {
	if rec == nil || rec.ClockIn == nil {
		return Absent{}
	}
	if rec.ClockOut == nil {
		return ClockedIn{Name: rec.Name, ClockIn: *rec.ClockIn}
	}
	return Completed{Name: rec.Name, ClockIn: *rec.ClockIn, ClockOut: *rec.ClockOut}
}

// NextAction maps a state onto the transition an operator may take next.
func NextAction(st AttendanceState) Action {
	switch st.(type) {
	case ClockedIn:
		return ActionClockOut
	case Completed:
		return ActionDone
	}
	return ActionClockIn
}
