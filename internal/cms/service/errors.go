package service

import (
	"errors"
	"fmt"
)

var (
	// ErrLookupFailure means the attendance store could not be reached.
	// Callers must not assume any default state when they see it.
	ErrLookupFailure = errors.New("attendance store unavailable")

	// ErrInvalidTransition is a clock action the record's state does not allow.
	ErrInvalidTransition = errors.New("invalid attendance transition")

	// ErrAggregationFailure means a report was abandoned part-way; nothing
	// computed so far is returned.
	ErrAggregationFailure = errors.New("report aggregation failed")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin privileges required")
	ErrRateLimited     = errors.New("rate limit exceeded")

	// ErrInvalidInput is the parent of every request validation error.
	ErrInvalidInput = errors.New("invalid input")
)

var (
	ErrInvalidEventID       = invalid("event_id is required")
	ErrInvalidMemberID      = invalid("member_id is required")
	ErrInvalidAction        = invalid("action must be clockIn or clockOut")
	ErrInvalidMemberName    = invalid("name is required")
	ErrTooManyInterests     = invalid("at most three interest groups are allowed")
	ErrInvalidEventTitle    = invalid("title is required")
	ErrInvalidEventSchedule = invalid("scheduled_at is required")
	ErrInvalidReportRequest = invalid("report range or rate is invalid")
	ErrWeakPassword         = invalid("password must be at least 6 characters")
	ErrNotAMember           = invalid("username is not a registered member contact; contact an administrator to join")
	ErrUsernameTaken        = invalid("username is already registered")
	ErrPasswordMismatch     = invalid("passwords do not match")
)

// ErrInvalidCredentials is reported as an authentication failure so a
// failed login cannot tell a bad username from a bad password.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
