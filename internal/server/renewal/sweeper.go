package renewal

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/metrics"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

// Sweeper periodically deletes renewal records that are past their expiry.
// Such records are already invisible to lookups; sweeping only reclaims space.
type Sweeper struct {
	repo     renewals.Repository
	clock    timex.Clock
	interval time.Duration
	logger   logging.Logger
}

func NewSweeper(repo renewals.Repository, clock timex.Clock, interval time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{repo: repo, clock: clock, interval: interval, logger: logger.With("module", "sweeper")}
}

// Sweep deletes every record expired at the current time.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.PurgedRecords.Add(float64(n))
	}
	return n, nil
}

// Run sweeps every interval until ctx is done. A non-positive interval
// disables sweeping and Run returns immediately.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info(ctx, "renewal sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error(ctx, "renewal sweep failed", "error", err)
				continue
			}
			s.logger.Debug(ctx, "renewal sweep finished", "deleted", n)
		}
	}
}
