package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/store/memory"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

var (
	adminSession = types.Session{UserID: "u-admin", Username: "admin", IsAdmin: true}
	userSession  = types.Session{UserID: "u-user", Username: "user"}

	t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeClock is a settable server clock shared by the engine and reports.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// harness wires every service over in-memory stores.
type harness struct {
	members    *memory.MemberStore
	events     *memory.EventStore
	attendance *memory.AttendanceStore
	audit      *memory.ClockAuditStore
	feed       *service.AttendanceFeed
	query      *service.AttendanceQuery
	engine     *service.ClockEngine
	reports    *service.ReportService
	clock      *fakeClock
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	wrap func(store.AttendanceStore) store.AttendanceStore
	loc  *time.Location
}

func withAttendance(wrap func(store.AttendanceStore) store.AttendanceStore) harnessOption {
	return func(c *harnessConfig) { c.wrap = wrap }
}

func withLocation(loc *time.Location) harnessOption {
	return func(c *harnessConfig) { c.loc = loc }
}

func newHarness(opts ...harnessOption) *harness {
	var cfg harnessConfig
	for _, o := range opts {
		o(&cfg)
	}

	h := &harness{
		members: memory.NewMemberStore(),
		events:  memory.NewEventStore(),
		audit:   memory.NewClockAuditStore(),
		feed:    service.NewAttendanceFeed(),
		clock:   &fakeClock{t: t0},
	}
	h.attendance = memory.NewAttendanceStore(h.events)

	var att store.AttendanceStore = h.attendance
	if cfg.wrap != nil {
		att = cfg.wrap(att)
	}

	h.query = service.NewAttendanceQuery(att, h.feed, silentLogger())
	h.engine = service.NewClockEngine(service.ClockDependencies{
		Attendance: att,
		Events:     h.events,
		Members:    h.members,
		Audit:      h.audit,
		Notifier:   h.feed,
		Logger:     silentLogger(),
		Now:        h.clock.Now,
	})
	h.reports = service.NewReportService(service.ReportDependencies{
		Members:  h.members,
		Events:   h.events,
		Query:    h.query,
		Logger:   silentLogger(),
		Location: cfg.loc,
		Now:      h.clock.Now,
	})
	return h
}

func (h *harness) addMember(id, name string) {
	if err := h.members.CreateMember(context.Background(), types.Member{ID: id, Name: name, CreatedAt: t0, UpdatedAt: t0}); err != nil {
		panic(err)
	}
}

func (h *harness) addEvent(id string) {
	if err := h.events.CreateEvent(context.Background(), types.Event{ID: id, Title: "Event " + id, ScheduledAt: t0, CreatedAt: t0, UpdatedAt: t0}); err != nil {
		panic(err)
	}
}

// clockAt applies action with the server clock pinned to at.
func (h *harness) clockAt(at time.Time, eventID, memberID, name string, action types.Action) error {
	h.clock.Set(at)
	return h.engine.ApplyAction(context.Background(), adminSession, eventID, memberID, name, action)
}

var errStoreDown = errors.New("store unreachable")

// flakyAttendance fails reads once armed. failAfter counts successful
// GetAttendance calls allowed before every later one errors; -1 never fails.
type flakyAttendance struct {
	store.AttendanceStore
	failAfter atomic.Int64
	failList  atomic.Bool
	calls     atomic.Int64
}

func newFlaky(inner store.AttendanceStore) *flakyAttendance {
	f := &flakyAttendance{AttendanceStore: inner}
	f.failAfter.Store(-1)
	return f
}

func (f *flakyAttendance) GetAttendance(ctx context.Context, eventID, memberID string) (*types.AttendanceRecord, error) {
	n := f.calls.Add(1)
	if limit := f.failAfter.Load(); limit >= 0 && n > limit {
		return nil, errStoreDown
	}
	return f.AttendanceStore.GetAttendance(ctx, eventID, memberID)
}

func (f *flakyAttendance) ListEventAttendance(ctx context.Context, eventID string) ([]types.AttendanceRecord, error) {
	if f.failList.Load() {
		return nil, errStoreDown
	}
	return f.AttendanceStore.ListEventAttendance(ctx, eventID)
}
