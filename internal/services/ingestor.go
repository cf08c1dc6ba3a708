package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/eventsource"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/prices"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils/poller"
	"github.com/rs/zerolog/log"
)

// StartIngestionPoller starts the event ingestion cycle.
func (s *Service) StartIngestionPoller(ctx context.Context) {
	ingestionPoller := poller.NewPoller(
		s.cfg.Poller.IngestionInterval,
		metrics.RecordPollerDuration("ingestion", s.ingestEvents),
	)
	go ingestionPoller.Start(ctx)
}

// ingestEvents runs one ingestion cycle: refresh the price snapshot, pull a
// page of events above the cursor and process them in order. A transient
// upstream failure aborts the cycle; the cursor only reflects events already
// marked processed, so the next tick resumes cleanly.
func (s *Service) ingestEvents(ctx context.Context) error {
	log := log.Ctx(ctx)

	if err := s.refreshPriceSnapshot(ctx); err != nil {
		return fmt.Errorf("failed to refresh price snapshot: %w", err)
	}

	cursor, err := s.db.GetLastProcessedBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ingestion cursor: %w", err)
	}

	events, err := s.eventSource.GetPoolEvents(ctx, cursor)
	if err != nil {
		return fmt.Errorf("failed to fetch pool events: %w", err)
	}
	if len(events) == 0 {
		log.Debug().Uint64("cursor", cursor).Msg("No new pool events")
		return nil
	}

	log.Info().
		Uint64("cursor", cursor).
		Int("event_count", len(events)).
		Msg("Processing new pool events")

	for i := range events {
		event := &events[i]

		processed, err := s.db.HasProcessedEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to check event dedup state: %w", err)
		}
		if processed {
			continue
		}

		startTime := time.Now()
		procErr := s.processEvent(ctx, event)
		metrics.RecordEventProcessingDuration(time.Since(startTime), event.Type.String(), procErr != nil && !types.IsSkip(procErr))

		switch {
		case procErr == nil:
			// fully handled, fall through to mark
		case types.IsSkip(procErr):
			var pe *types.ProcessingError
			errors.As(procErr, &pe)
			metrics.IncEventsSkipped(event.Type.String(), pe.Reason)
			log.Warn().
				Str("event_id", event.ID).
				Str("event_type", event.Type.String()).
				Str("reason", pe.Reason).
				Msg("Skipping pool event")
		case types.IsRetryable(procErr):
			// abort without marking so the event is reprocessed next tick
			return fmt.Errorf("failed to process event %s: %w", event.ID, procErr)
		default:
			// fatal domain error: mark processed so the event cannot
			// poison every subsequent cycle
			log.Error().
				Err(procErr).
				Str("event_id", event.ID).
				Str("event_type", event.Type.String()).
				Msg("Failed to process pool event")
		}

		if err := s.db.MarkEventProcessed(ctx, event.ID, event.BlockHeight); err != nil {
			return fmt.Errorf("failed to mark event %s processed: %w", event.ID, err)
		}
		metrics.RecordLastProcessedBlock(event.BlockHeight)

		// respect upstream rate limits
		select {
		case <-time.After(s.cfg.EventSource.EventDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// refreshPriceSnapshot rebuilds the token price snapshot wholesale from the
// oracle. Tokens that cannot be priced this cycle are simply absent, which
// downstream treats as a skip rather than a zero valuation.
func (s *Service) refreshPriceSnapshot(ctx context.Context) error {
	basePrice, err := s.oracle.GetBaseAssetPriceUSD(ctx)
	if err != nil {
		return err
	}

	pools, err := s.oracle.GetAllPools(ctx)
	if err != nil {
		return err
	}

	s.priceSnapshot = prices.BuildSnapshot(
		s.cfg.Oracle.BaseAssetAddress,
		basePrice,
		pools,
		prices.Thresholds{
			MinBaseReserve:  s.cfg.Oracle.MinBaseReserve,
			MinTokenReserve: s.cfg.Oracle.MinTokenReserve,
			MinUSDPrice:     s.cfg.Oracle.MinUSDPrice,
		},
	)
	metrics.RecordPriceSnapshotSize(s.priceSnapshot.Len())

	log.Ctx(ctx).Debug().
		Int("token_count", s.priceSnapshot.Len()).
		Msg("Refreshed price snapshot")

	return nil
}

// processEvent classifies and handles a single pool event. The returned error
// is a ProcessingError whose severity tells the caller whether to mark the
// event processed (skip, fatal) or abort the cycle (retryable).
func (s *Service) processEvent(ctx context.Context, event *eventsource.PoolEvent) error {
	if s.cfg.EventSource.IsIneligibleToken(event.Pool.Token1.ID) ||
		s.cfg.EventSource.IsIneligibleToken(event.Pool.Token2.ID) {
		return types.NewSkip("ineligible_token")
	}

	switch event.Type {
	case types.PoolEventSwap:
		return s.processSwapEvent(ctx, event)
	case types.PoolEventMint:
		return s.processMintEvent(ctx, event)
	case types.PoolEventBurn:
		return s.processBurnEvent(ctx, event)
	default:
		return types.NewSkip("unknown_event_type")
	}
}

func (s *Service) processSwapEvent(ctx context.Context, event *eventsource.PoolEvent) error {
	price1, ok1 := s.priceSnapshot.Price(event.Pool.Token1.ID)
	price2, ok2 := s.priceSnapshot.Price(event.Pool.Token2.ID)
	if !ok1 || !ok2 {
		return types.NewSkip("missing_token_price")
	}

	amount1, amount2, err := event.Amounts()
	if err != nil {
		return types.NewSkip("malformed_amount")
	}

	// swap volume is the average of the two legs' USD values
	swapVolumeUSD := (amount1*price1 + amount2*price2) / 2
	safeValueUSD := s.clampValueUSD(swapVolumeUSD)

	poolAddress := event.PoolAddress()
	if err := s.ensurePoolConfig(ctx, poolAddress, event.Pool.Token1.ID, event.Pool.Token2.ID); err != nil {
		return types.NewRetryable("failed to ensure pool config", err)
	}

	tx := &model.SwapTransaction{
		UserAddress: event.ToAddress,
		PoolAddress: poolAddress,
		TokenIn:     event.Pool.Token1.ID,
		TokenOut:    event.Pool.Token2.ID,
		AmountIn:    amount1,
		AmountOut:   amount2,
		ValueUSD:    safeValueUSD,
		Date:        utils.DayStart(time.Now()),
	}
	if err := s.db.SaveSwapTransaction(ctx, tx); err != nil {
		return types.NewRetryable("failed to save swap transaction", err)
	}

	log.Ctx(ctx).Debug().
		Str("event_id", event.ID).
		Str("user_address", event.ToAddress).
		Str("pool_address", poolAddress).
		Float64("value_usd", safeValueUSD).
		Msg("Recorded swap transaction")

	return nil
}

func (s *Service) processMintEvent(ctx context.Context, event *eventsource.PoolEvent) error {
	// prefer the explicit recipient, fall back to the sender
	userAddress := event.ToAddress
	if userAddress == "" {
		userAddress = event.SenderAddress
	}
	if userAddress == "" {
		return types.NewSkip("missing_user_address")
	}

	return s.recordLiquidityTransaction(ctx, event, userAddress, types.TransactionMint)
}

func (s *Service) processBurnEvent(ctx context.Context, event *eventsource.PoolEvent) error {
	// burns credit the liquidity back to an explicit recipient only
	if event.ToAddress == "" {
		return types.NewSkip("missing_user_address")
	}

	return s.recordLiquidityTransaction(ctx, event, event.ToAddress, types.TransactionBurn)
}

func (s *Service) recordLiquidityTransaction(
	ctx context.Context,
	event *eventsource.PoolEvent,
	userAddress string,
	txType types.TransactionType,
) error {
	price1, ok1 := s.priceSnapshot.Price(event.Pool.Token1.ID)
	price2, ok2 := s.priceSnapshot.Price(event.Pool.Token2.ID)
	if !ok1 || !ok2 {
		return types.NewSkip("missing_token_price")
	}

	amount1, amount2, err := event.Amounts()
	if err != nil {
		return types.NewSkip("malformed_amount")
	}

	valueUSD := amount1*price1 + amount2*price2
	safeValueUSD := s.clampValueUSD(valueUSD)

	poolAddress := event.PoolAddress()
	if err := s.ensurePoolConfig(ctx, poolAddress, event.Pool.Token1.ID, event.Pool.Token2.ID); err != nil {
		return types.NewRetryable("failed to ensure pool config", err)
	}

	now := time.Now()
	tx := &model.LiquidityTransaction{
		UserAddress: userAddress,
		PoolAddress: poolAddress,
		Type:        txType,
		ValueUSD:    safeValueUSD,
		Date:        utils.DayStart(now),
		CreatedAt:   now,
	}
	if err := s.db.SaveLiquidityTransaction(ctx, tx); err != nil {
		return types.NewRetryable("failed to save liquidity transaction", err)
	}

	log.Ctx(ctx).Debug().
		Str("event_id", event.ID).
		Str("user_address", userAddress).
		Str("pool_address", poolAddress).
		Str("type", txType.String()).
		Float64("value_usd", safeValueUSD).
		Msg("Recorded liquidity transaction")

	return nil
}

// ensurePoolConfig lazily creates the pool config on the first observed event
// for a pool. The pool type is derived once from the configured stablecoin
// list; campaign eligibility starts off and is flipped by the admin surface.
func (s *Service) ensurePoolConfig(ctx context.Context, poolAddress, token0, token1 string) error {
	_, err := s.db.GetPoolConfig(ctx, poolAddress)
	if err == nil {
		return nil
	}
	var notFound *db.NotFoundError
	if !errors.As(err, &notFound) {
		return err
	}

	poolType := types.ClassifyPool(
		s.cfg.Rewards.IsStableToken(token0),
		s.cfg.Rewards.IsStableToken(token1),
	)

	now := time.Now()
	cfg := &model.PoolConfig{
		PoolAddress:   poolAddress,
		Token0Address: token0,
		Token1Address: token1,
		PoolType:      poolType,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.SavePoolConfig(ctx, cfg); err != nil {
		// a concurrent ingestion already created it
		var dup *db.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil
		}
		return err
	}

	log.Ctx(ctx).Info().
		Str("pool_address", poolAddress).
		Str("pool_type", poolType.String()).
		Msg("Created pool config")

	return nil
}

func (s *Service) clampValueUSD(value float64) float64 {
	if value > s.cfg.Rewards.SafeMaxValueUSD {
		return s.cfg.Rewards.SafeMaxValueUSD
	}
	return value
}
