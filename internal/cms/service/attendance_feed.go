package service

import (
	"context"
	"iter"
	"sync"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// AttendanceNotifier is told whenever an event's attendance changes.
type AttendanceNotifier interface {
	Notify(eventID string)
}

// AttendanceFeed fans change notifications out to live subscribers. Wake-ups
// carry no payload; each subscriber reloads the full set itself.
type AttendanceFeed struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewAttendanceFeed() *AttendanceFeed {
	return &AttendanceFeed{subs: make(map[string]map[chan struct{}]struct{})}
}

// Notify wakes every subscriber of eventID. It never blocks; a subscriber
// that already has a pending wake-up absorbs this one.
func (f *AttendanceFeed) Notify(eventID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[eventID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns how many live subscriptions eventID has.
func (f *AttendanceFeed) Subscribers(eventID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[eventID])
}

func (f *AttendanceFeed) register(eventID string) chan struct{} {
	ch := make(chan struct{}, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[eventID] == nil {
		f.subs[eventID] = make(map[chan struct{}]struct{})
	}
	f.subs[eventID][ch] = struct{}{}
	return ch
}

func (f *AttendanceFeed) unregister(eventID string, ch chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs[eventID], ch)
	if len(f.subs[eventID]) == 0 {
		delete(f.subs, eventID)
	}
}

// Subscription is a live view of one event's attendance. Every value received
// from C is the complete current set, never a delta. Slow readers only ever
// see the newest snapshot.
//
// A subscription holds a goroutine until Cancel is called or the context
// passed to Subscribe ends.
type Subscription struct {
	c      chan []types.AttendanceRecord
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

func newSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		c:      make(chan []types.AttendanceRecord, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// C is closed when the subscription ends.
func (s *Subscription) C() <-chan []types.AttendanceRecord { return s.c }

// Cancel ends the subscription and waits for its goroutine to exit. Safe to
// call more than once.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Err reports why the feed stopped early. It is nil after a normal Cancel.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// All ranges over snapshots until the feed ends. Breaking out of the loop
// cancels the subscription.
func (s *Subscription) All() iter.Seq[[]types.AttendanceRecord] {
	return func(yield func([]types.AttendanceRecord) bool) {
		for snap := range s.c {
			if !yield(snap) {
				s.Cancel()
				return
			}
		}
	}
}

// deliver replaces any unread snapshot with snap. Only the subscription's own
// goroutine sends, so the buffered send never blocks.
func (s *Subscription) deliver(snap []types.AttendanceRecord) {
	select {
	case <-s.c:
	default:
	}
	s.c <- snap
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
