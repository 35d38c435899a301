// Package store defines the persistence contracts the cms services depend on.
// Implementations live in store/memory and store/sqlite.
package store

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// Attendance transition guards. Each maps to a conditional write that
	// matched no row.
	ErrAlreadyClockedIn = errors.New("attendance already clocked in")
	ErrNotClockedIn     = errors.New("attendance has no clock-in")
	ErrAlreadyCompleted = errors.New("attendance already clocked out")
)
