package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type attendanceKey struct {
	eventID  string
	memberID string
}

// AttendanceStore keeps attendance rows in a map guarded by one mutex, which
// gives every method the same single-document atomicity the sqlite store has.
type AttendanceStore struct {
	mu      sync.RWMutex
	records map[attendanceKey]types.AttendanceRecord
	events  *EventStore // optional; used only by CountOrphaned
}

func NewAttendanceStore(events *EventStore) *AttendanceStore {
	return &AttendanceStore{
		records: make(map[attendanceKey]types.AttendanceRecord),
		events:  events,
	}
}

func (s *AttendanceStore) GetAttendance(_ context.Context, eventID, memberID string) (*types.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[attendanceKey{eventID, memberID}]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (s *AttendanceStore) ClockIn(_ context.Context, eventID, memberID, name string, at time.Time) error {
	at = at.UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	k := attendanceKey{eventID, memberID}
	rec, ok := s.records[k]
	if ok && rec.ClockIn != nil {
		return store.ErrAlreadyClockedIn
	}
	if !ok {
		rec = types.AttendanceRecord{EventID: eventID, MemberID: memberID}
	}
	rec.Name = name
	rec.ClockIn = &at
	s.records[k] = rec
	return nil
}

func (s *AttendanceStore) ClockOut(_ context.Context, eventID, memberID string, at time.Time) (time.Time, error) {
	at = at.UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	k := attendanceKey{eventID, memberID}
	rec, ok := s.records[k]
	switch {
	case !ok || rec.ClockIn == nil:
		return time.Time{}, store.ErrNotClockedIn
	case rec.ClockOut != nil:
		return time.Time{}, store.ErrAlreadyCompleted
	}
	if at.Before(*rec.ClockIn) {
		at = *rec.ClockIn
	}
	rec.ClockOut = &at
	s.records[k] = rec
	return at, nil
}

func (s *AttendanceStore) Invite(_ context.Context, eventID, memberID, name string, at time.Time) error {
	at = at.UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	k := attendanceKey{eventID, memberID}
	if _, ok := s.records[k]; ok {
		return nil
	}
	s.records[k] = types.AttendanceRecord{
		EventID:   eventID,
		MemberID:  memberID,
		Name:      name,
		InvitedAt: &at,
	}
	return nil
}

func (s *AttendanceStore) ListEventAttendance(_ context.Context, eventID string) ([]types.AttendanceRecord, error) {
	s.mu.RLock()
	var out []types.AttendanceRecord
	for k, rec := range s.records {
		if k.eventID == eventID {
			out = append(out, cloneRecord(rec))
		}
	}
	s.mu.RUnlock()

	sortRecords(out)
	return out, nil
}

func (s *AttendanceStore) CountOrphaned(_ context.Context) (int64, error) {
	if s.events == nil {
		return 0, nil
	}
	s.mu.RLock()
	keys := make([]attendanceKey, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	var n int64
	for _, k := range keys {
		if !s.events.exists(k.eventID) {
			n++
		}
	}
	return n, nil
}

func cloneRecord(r types.AttendanceRecord) types.AttendanceRecord {
	r.InvitedAt = cloneTime(r.InvitedAt)
	r.ClockIn = cloneTime(r.ClockIn)
	r.ClockOut = cloneTime(r.ClockOut)
	return r
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sortRecords(recs []types.AttendanceRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Name != recs[j].Name {
			return recs[i].Name < recs[j].Name
		}
		return recs[i].MemberID < recs[j].MemberID
	})
}
