package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

func TestOrphanAuditor_DisabledWhenIntervalZero(t *testing.T) {
	h := newHarness()
	auditor := service.NewOrphanAuditor(h.attendance, 0, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditor.Start(ctx)
	// Stop should return immediately without error.
	auditor.Stop()
}

func TestOrphanAuditor_CountsWithoutDeleting(t *testing.T) {
	h := newHarness()
	h.addEvent("E1")
	h.addEvent("E2")
	h.addMember("M", "Alice")
	ctx := context.Background()

	if err := h.clockAt(t0, "E1", "M", "Alice", types.ActionClockIn); err != nil {
		t.Fatalf("clock in E1: %v", err)
	}
	if err := h.clockAt(t0, "E2", "M", "Alice", types.ActionClockIn); err != nil {
		t.Fatalf("clock in E2: %v", err)
	}

	auditor := service.NewOrphanAuditor(h.attendance, time.Hour, silentLogger())

	n, err := auditor.Audit(ctx)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 orphans, got %d", n)
	}

	if err := h.events.DeleteEvent(ctx, "E2"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	n, err = auditor.Audit(ctx)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 orphan, got %d", n)
	}

	rec, _ := h.attendance.GetAttendance(ctx, "E2", "M")
	if rec == nil {
		t.Error("auditor must not delete orphaned attendance")
	}
}

func TestOrphanAuditor_StopIsIdempotent(t *testing.T) {
	h := newHarness()
	auditor := service.NewOrphanAuditor(h.attendance, time.Hour, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	auditor.Start(ctx)

	cancel()
	// Multiple stops should not panic.
	auditor.Stop()
	auditor.Stop()
}
