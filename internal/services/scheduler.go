package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/queue"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils/poller"
	"github.com/rs/zerolog/log"
)

// StartDailyScheduler starts the daily balance and points cycle. The cycle
// always targets the previous day; re-runs for an already-processed day are
// idempotent for balances and liquidity points.
func (s *Service) StartDailyScheduler(ctx context.Context) {
	dailyPoller := poller.NewPoller(
		s.cfg.Poller.DailyInterval,
		metrics.RecordPollerDuration("daily", s.runDailyCycle),
	)
	go dailyPoller.Start(ctx)
}

func (s *Service) runDailyCycle(ctx context.Context) error {
	// single-flight: a run exceeding the schedule period must not overlap
	// with the next tick; the skipped tick is not queued
	if !s.dailyRunning.CompareAndSwap(false, true) {
		log.Ctx(ctx).Warn().Msg("Daily cycle already running, skipping this tick")
		return nil
	}
	defer s.dailyRunning.Store(false)

	date := utils.DayStart(time.Now().AddDate(0, 0, -1))
	return s.ProcessDay(ctx, date)
}

// ProcessDay runs the two sequential passes of the daily cycle for one day:
// first every user's balances are finalized, only then are points computed.
// Per-user failures are isolated; a failed user's day stays stale until the
// next run or a manual replay.
func (s *Service) ProcessDay(ctx context.Context, date time.Time) error {
	log := log.Ctx(ctx)

	users, err := s.usersForDailyCalculation(ctx, date)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		log.Debug().Time("date", date).Msg("No users to process for day")
		return nil
	}

	log.Info().
		Time("date", date).
		Int("user_count", len(users)).
		Msg("Starting daily cycle")

	for _, userAddress := range users {
		if err := s.ComputeAndStoreDailyBalances(ctx, userAddress, date); err != nil {
			log.Error().
				Err(err).
				Str("user_address", userAddress).
				Msg("Failed to compute daily balances for user")
		}
	}

	// swap and referral points accumulate via $inc, so a re-run of the same
	// day must start them from zero
	reset, err := s.db.ResetDailyAdditivePoints(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to reset additive points for day: %w", err)
	}
	if reset > 0 {
		log.Info().
			Time("date", date).
			Int64("rows_reset", reset).
			Msg("Zeroed previously awarded swap and referral points for re-run")
	}

	for _, userAddress := range users {
		points, err := s.AwardDailyLiquidityPoints(ctx, userAddress, date)
		if err != nil {
			log.Error().
				Err(err).
				Str("user_address", userAddress).
				Msg("Failed to award liquidity points to user")
			continue
		}
		if err := s.cascadeReferralBonus(ctx, userAddress, date, points); err != nil {
			log.Error().
				Err(err).
				Str("user_address", userAddress).
				Msg("Failed to cascade referral bonus for user")
		}
	}

	if err := s.AwardSwapPoints(ctx, date); err != nil {
		return err
	}

	s.publishDailySummaries(ctx, users, date)

	log.Info().Time("date", date).Msg("Daily cycle completed")
	return nil
}

// usersForDailyCalculation returns every user with ledger activity on the day
// or a carried balance above the threshold from the previous day.
func (s *Service) usersForDailyCalculation(ctx context.Context, date time.Time) ([]string, error) {
	transactionUsers, err := s.db.GetUsersWithLiquidityTransactions(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users with transactions: %w", err)
	}

	previousDate := date.AddDate(0, 0, -1)
	balanceUsers, err := s.db.GetUsersWithBalancesAbove(ctx, previousDate, s.cfg.Rewards.MinLiquidityThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users with carried balances: %w", err)
	}

	return mergeUsers(transactionUsers, balanceUsers), nil
}

// mergeUsers unions the user lists preserving first-seen order.
func mergeUsers(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, user := range list {
			if _, ok := seen[user]; ok {
				continue
			}
			seen[user] = struct{}{}
			merged = append(merged, user)
		}
	}
	return merged
}

// publishDailySummaries notifies downstream consumers of each user's final
// points for the day. Publish failures are logged, never fatal: the points
// are already durable.
func (s *Service) publishDailySummaries(ctx context.Context, users []string, date time.Time) {
	if s.queueManager == nil {
		return
	}
	log := log.Ctx(ctx)

	for _, userAddress := range users {
		rows, err := s.db.GetUserPoints(ctx, userAddress, date)
		if err != nil {
			log.Error().
				Err(err).
				Str("user_address", userAddress).
				Msg("Failed to load points for queue notification")
			continue
		}

		event := &queue.PointsAwardedEvent{
			UserAddress: userAddress,
			Date:        date,
		}
		for _, row := range rows {
			event.SwapPoints += row.SwapPoints
			event.ReferralPoints += row.ReferralPoints
			// per-pool liquidity rows are pre-multiplier components of the
			// summary row; only the summary counts
			if row.PoolAddress == model.PoolKeyAllPools {
				event.LiquidityPoints += row.LiquidityPoints
			}
		}
		if event.LiquidityPoints == 0 && event.SwapPoints == 0 && event.ReferralPoints == 0 {
			continue
		}

		if err := s.queueManager.PublishPointsAwarded(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("user_address", userAddress).
				Msg("Failed to publish points notification")
		}
	}
}
