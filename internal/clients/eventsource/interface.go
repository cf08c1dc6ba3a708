package eventsource

import "context"

type EventSourceInterface interface {
	// GetPoolEvents returns pool events strictly above the given block
	// height, ordered by block height ascending, bounded by the configured
	// page size.
	GetPoolEvents(ctx context.Context, afterBlock uint64) ([]PoolEvent, error)
}
