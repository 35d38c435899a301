package service

import (
	"context"
	"log"
	"time"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
)

// OrphanAuditor periodically counts attendance rows whose event has been
// deleted. It only reports; nothing is removed until there is a decision on
// cascading deletes.
//
// An interval of 0 disables the auditor.
type OrphanAuditor struct {
	store    store.AttendanceStore
	interval time.Duration
	logger   *log.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewOrphanAuditor creates an auditor but does not start it.
func NewOrphanAuditor(s store.AttendanceStore, interval time.Duration, logger *log.Logger) *OrphanAuditor {
	return &OrphanAuditor{
		store:    s,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs one audit immediately, then repeats on the interval until ctx
// is cancelled or Stop is called.
func (a *OrphanAuditor) Start(ctx context.Context) {
	if a.interval <= 0 {
		a.logger.Printf("orphan attendance auditor disabled (interval=0)")
		close(a.done)
		return
	}

	ctx, a.cancel = context.WithCancel(ctx)

	go a.loop(ctx)

	a.logger.Printf("orphan attendance auditor started (interval=%s)", a.interval)
}

// Stop signals the auditor to exit and waits for it to finish.
func (a *OrphanAuditor) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	<-a.done
}

// Audit runs a single pass and returns the orphan count.
func (a *OrphanAuditor) Audit(ctx context.Context) (int64, error) {
	n, err := a.store.CountOrphaned(ctx)
	if err != nil {
		a.logger.Printf("orphan attendance audit error: %v", err)
		return 0, err
	}
	if n > 0 {
		a.logger.Printf("orphan attendance audit: %d rows reference deleted events", n)
	}
	return n, nil
}

func (a *OrphanAuditor) loop(ctx context.Context) {
	defer close(a.done)

	a.Audit(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Audit(ctx)
		}
	}
}
