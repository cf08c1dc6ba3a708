package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils/poller"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// retainedBlocks is how far behind the cursor processed-event dedup records
// are kept. Roughly a month of 12s blocks; dedup only needs to cover the
// window in which the event source could re-serve an event.
const retainedBlocks = 250_000

// StartCleanupPoller starts the retention purge of old balance history and
// dedup records.
func (s *Service) StartCleanupPoller(ctx context.Context) {
	cleanupPoller := poller.NewPoller(
		s.cfg.Poller.CleanupInterval,
		metrics.RecordPollerDuration("cleanup", s.cleanupOldRecords),
	)
	go cleanupPoller.Start(ctx)
}

func (s *Service) cleanupOldRecords(ctx context.Context) error {
	log := log.Ctx(ctx)
	cutoff := utils.DayStart(time.Now()).AddDate(0, 0, -s.cfg.Poller.RetentionDays)

	p := pool.New().WithErrors().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		deleted, err := s.db.DeleteDailyBalancesBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to purge old daily balances: %w", err)
		}
		if deleted > 0 {
			log.Info().
				Int64("deleted", deleted).
				Time("cutoff", cutoff).
				Msg("Purged old daily balance records")
		}
		return nil
	})

	p.Go(func(ctx context.Context) error {
		cursor, err := s.db.GetLastProcessedBlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to read ingestion cursor: %w", err)
		}
		if cursor <= retainedBlocks {
			return nil
		}
		deleted, err := s.db.DeleteProcessedEventsBelow(ctx, cursor-retainedBlocks)
		if err != nil {
			return fmt.Errorf("failed to purge old processed events: %w", err)
		}
		if deleted > 0 {
			log.Info().
				Int64("deleted", deleted).
				Uint64("below_height", cursor-retainedBlocks).
				Msg("Purged old processed event records")
		}
		return nil
	})

	return p.Wait()
}
