package services

import (
	"context"
	"sync/atomic"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/eventsource"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/oracle"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/prices"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/queue"
)

type Service struct {
	cfg          *config.Config
	db           db.DbInterface
	eventSource  eventsource.EventSourceInterface
	oracle       oracle.OracleInterface
	queueManager *queue.QueueManager
	composer     *MultiplierComposer

	// priceSnapshot is rebuilt wholesale at the start of each ingestion
	// cycle and only touched by the ingestion goroutine.
	priceSnapshot *prices.Snapshot
	// dailyRunning is the single-flight guard of the daily cycle.
	dailyRunning atomic.Bool
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	eventSource eventsource.EventSourceInterface,
	oracle oracle.OracleInterface,
	qm *queue.QueueManager,
) *Service {
	return &Service{
		cfg:          cfg,
		db:           db,
		eventSource:  eventSource,
		oracle:       oracle,
		queueManager: qm,
		composer:     NewMultiplierComposer(&cfg.Rewards),
	}
}

func (s *Service) StartIndexerSync(ctx context.Context) {
	// Start the ingestion cycle polling the event source
	s.StartIngestionPoller(ctx)
	// Start the daily balance and points cycle
	s.StartDailyScheduler(ctx)
	// Start the retention cleanup job
	s.StartCleanupPoller(ctx)

	<-ctx.Done()
}
