package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/JonasWeber/TrackNest/internal/pkg/cache"
	"github.com/JonasWeber/TrackNest/internal/pkg/metrics/counter"
	"github.com/JonasWeber/TrackNest/internal/pkg/payment"
)

const lockKey = "reconciliation_sweep_lock"

// Run periodically replays every membership ledger and overwrites the
// derived windows. This converges any window left stale by the accepted
// read-before-commit race on the hot path, and flips active windows whose
// expiry has passed. A redis lock keeps multiple instances from sweeping at
// the same time; the lock TTL matches the interval so exactly one instance
// sweeps per period.
func Run(ctx context.Context, svc *payment.Service, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !cache.AcquireLock(lockKey, interval) {
				continue
			}
			count, err := svc.ReconcileAll(ctx)
			if err != nil {
				log.Printf("reconciliation sweep failed: %v", err)
				continue
			}
			log.Printf("reconciliation sweep: %d memberships refreshed", count)

			if err := counter.FlushAll(); err != nil {
				log.Printf("download counter flush failed: %v", err)
			}
		}
	}
}
