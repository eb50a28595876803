package board

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Refresher re-runs Coordinator.Refresh on a fixed interval, independent
// of user action. A refresh already in flight makes the next tick skip
// rather than start a second concurrent fetch, and a failed refresh
// never stops future scheduled ones.
type Refresher struct {
	coord    *Coordinator
	interval time.Duration
	log      *slog.Logger
	inFlight atomic.Bool
}

// NewRefresher constructs a Refresher with the given interval.
func NewRefresher(coord *Coordinator, interval time.Duration, log *slog.Logger) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{coord: coord, interval: interval, log: log}
}

// Run ticks until ctx is cancelled. Call it from its own goroutine.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.TryRefresh(ctx); err != nil {
				r.log.Warn("scheduled refresh failed", "error", err)
			}
		}
	}
}

// TryRefresh runs one refresh unless another is already in flight, in
// which case it returns immediately with no error. Manual refreshes
// (initial load, an explicit refresh endpoint) share the same guard.
func (r *Refresher) TryRefresh(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.log.Debug("refresh already in flight, skipping")
		return nil
	}
	defer r.inFlight.Store(false)

	return r.coord.Refresh(ctx)
}
