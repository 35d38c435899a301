package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// DefaultReportConcurrency bounds how many members are aggregated at once.
const DefaultReportConcurrency = 4

type ReportDependencies struct {
	Members  store.MemberStore
	Events   store.EventStore
	Query    *AttendanceQuery
	Logger   *log.Logger
	Location *time.Location // report day boundaries; defaults to UTC
	Now      func() time.Time

	Concurrency int
}

// ReportService aggregates completed attendance into hours and pay per member.
type ReportService struct {
	members     store.MemberStore
	events      store.EventStore
	query       *AttendanceQuery
	logger      *log.Logger
	loc         *time.Location
	now         func() time.Time
	concurrency int
	tracer      trace.Tracer
}

func NewReportService(deps ReportDependencies) *ReportService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	n := deps.Concurrency
	if n <= 0 {
		n = DefaultReportConcurrency
	}
	return &ReportService{
		members:     deps.Members,
		events:      deps.Events,
		query:       deps.Query,
		logger:      deps.Logger,
		loc:         loc,
		now:         now,
		concurrency: n,
		tracer:      otel.Tracer(tracerName),
	}
}

// Location is the zone report day boundaries are computed in.
func (s *ReportService) Location() *time.Location { return s.loc }

// GenerateReport totals each requested member's completed attendance whose
// clock-in falls on a calendar day between req.Start and req.End inclusive,
// in the service's location. Every requested member gets a line, even with
// zero hours. Lines are ordered by member name, then id.
//
// Totals are never rounded here; see types.ReportLine.
func (s *ReportService) GenerateReport(ctx context.Context, sess types.Session, req types.ReportRequest) (rep types.Report, err error) {
	ctx, span := s.tracer.Start(ctx, "report.generate",
		trace.WithAttributes(
			attribute.Int("report.members.requested", len(req.MemberIDs)),
			attribute.Float64("report.hourly_rate", req.HourlyRate),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := requireAdmin(sess); err != nil {
		return types.Report{}, err
	}
	if err := validateReportRequest(req); err != nil {
		return types.Report{}, err
	}

	from := startOfDay(req.Start.In(s.loc))
	to := startOfDay(req.End.In(s.loc)).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if to.Before(from) {
		return types.Report{}, ErrInvalidReportRequest
	}

	members, err := s.resolveMembers(ctx, req.MemberIDs)
	if err != nil {
		return types.Report{}, err
	}

	// Every event is a candidate: attendance is matched on its own clock-in
	// time, not on when the event was scheduled.
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return types.Report{}, fmt.Errorf("%w: list events: %w", ErrAggregationFailure, err)
	}
	eventIDs := make([]string, len(events))
	for i, ev := range events {
		eventIDs[i] = ev.ID
	}
	span.SetAttributes(
		attribute.Int("report.members", len(members)),
		attribute.Int("report.events", len(eventIDs)),
	)

	lines := make([]types.ReportLine, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, m := range members {
		g.Go(func() error {
			att, err := s.query.ListMemberAttendance(gctx, m.ID, eventIDs)
			if err != nil {
				return err
			}
			hours := sumHours(att, from, to)
			lines[i] = types.ReportLine{
				MemberID:   m.ID,
				MemberName: m.Name,
				TotalHours: hours,
				TotalPay:   hours * req.HourlyRate,
				From:       from,
				To:         to,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Printf("report aggregation abandoned: %v", err)
		return types.Report{}, fmt.Errorf("%w: %w", ErrAggregationFailure, err)
	}

	slices.SortFunc(lines, func(a, b types.ReportLine) int {
		return cmp.Or(cmp.Compare(a.MemberName, b.MemberName), cmp.Compare(a.MemberID, b.MemberID))
	})

	return types.Report{
		From:        from,
		To:          to,
		HourlyRate:  req.HourlyRate,
		GeneratedAt: s.now().UTC(),
		Lines:       lines,
	}, nil
}

// resolveMembers returns the requested members, or the whole roster when ids
// is empty. Duplicate ids collapse to one line.
func (s *ReportService) resolveMembers(ctx context.Context, ids []string) ([]types.Member, error) {
	if len(ids) == 0 {
		all, err := s.members.ListMembers(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list members: %w", ErrAggregationFailure, err)
		}
		return all, nil
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]types.Member, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		m, err := s.members.GetMember(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("member %s: %w", id, err)
			}
			return nil, fmt.Errorf("%w: member %s: %w", ErrAggregationFailure, id, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func validateReportRequest(req types.ReportRequest) error {
	switch {
	case req.Start.IsZero(), req.End.IsZero():
		return ErrInvalidReportRequest
	case req.HourlyRate < 0, math.IsNaN(req.HourlyRate), math.IsInf(req.HourlyRate, 0):
		return ErrInvalidReportRequest
	}
	return nil
}

// sumHours adds up completed intervals whose clock-in lies in [from, to].
func sumHours(att []types.EventAttendance, from, to time.Time) float64 {
	var hours float64
	for _, ea := range att {
		c, ok := types.StateOf(&ea.Record).(types.Completed)
		if !ok {
			continue
		}
		if c.ClockIn.Before(from) || c.ClockIn.After(to) {
			continue
		}
		hours += c.Hours()
	}
	return hours
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
