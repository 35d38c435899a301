package store

import (
	"context"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// AttendanceStore persists one record per (event, member). Every mutation is
// a single conditional write so that concurrent operators cannot clobber each
// other's transitions.
type AttendanceStore interface {
	// GetAttendance returns nil, nil when no record exists.
	GetAttendance(ctx context.Context, eventID, memberID string) (*types.AttendanceRecord, error)

	// ClockIn creates the record, or fills clock-in on an invitation.
	// Fails with ErrAlreadyClockedIn if clock-in is already set; an existing
	// clock-out is never touched.
	ClockIn(ctx context.Context, eventID, memberID, name string, at time.Time) error

	// ClockOut sets clock-out only when clock-in is set and clock-out is not.
	// The stored value is clamped to clock-in and returned.
	ClockOut(ctx context.Context, eventID, memberID string, at time.Time) (time.Time, error)

	// Invite creates an empty record if none exists. Existing records are left as-is.
	Invite(ctx context.Context, eventID, memberID, name string, at time.Time) error

	// ListEventAttendance returns every record for the event ordered by name.
	ListEventAttendance(ctx context.Context, eventID string) ([]types.AttendanceRecord, error)

	// CountOrphaned counts records whose event no longer exists.
	CountOrphaned(ctx context.Context) (int64, error)
}
