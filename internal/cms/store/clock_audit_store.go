package store

import (
	"context"
	"time"
)

// ClockAuditEntry captures one clock action attempt for the audit log.
type ClockAuditEntry struct {
	EventID    string
	MemberID   string
	Action     string
	OperatorID string // Session.UserID of whoever pressed the button
	Outcome    string // "ok" or the failure reason
	At         time.Time
}

// ClockAuditStore persists clock actions as an append-only audit log.
type ClockAuditStore interface {
	RecordClock(ctx context.Context, e ClockAuditEntry) error
	ListClockAudit(ctx context.Context, eventID string) ([]ClockAuditEntry, error)
}
