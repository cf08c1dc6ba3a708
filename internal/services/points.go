package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	"github.com/rs/zerolog/log"
)

// pointsPrecision rounds awarded points to 6 decimal places; values below
// pointsEpsilon are floored to zero so residual float noise never accumulates
// into balances.
const (
	pointsPrecision = 1e6
	pointsEpsilon   = 1e-9
)

func roundPoints(v float64) float64 {
	if v < pointsEpsilon {
		return 0
	}
	return math.Round(v*pointsPrecision) / pointsPrecision
}

// AwardDailyLiquidityPoints computes and persists the user's liquidity points
// for the day from the pre-computed lowest balances. Per-pool rows are
// overwritten, never incremented, because balances are recomputed wholesale;
// the returned day total (with the pool-count multiplier applied) is stored
// as the summary row and feeds the referral cascade.
func (s *Service) AwardDailyLiquidityPoints(ctx context.Context, userAddress string, date time.Time) (float64, error) {
	log := log.Ctx(ctx)

	settings, err := s.db.GetGlobalSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch global settings: %w", err)
	}

	balances, err := s.db.GetDailyBalances(ctx, userAddress, date)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch daily balances: %w", err)
	}

	threshold := s.cfg.Rewards.MinLiquidityThreshold
	var eligible []model.DailyBalance
	for _, b := range balances {
		if b.LowestUSD > threshold {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		log.Debug().
			Str("user_address", userAddress).
			Msg("No balances above threshold, no liquidity points")
		return 0, nil
	}

	poolCountMultiplier := s.composer.PoolCountMultiplier(len(eligible))

	var totalPoints float64
	for _, balance := range eligible {
		poolCfg, err := s.db.GetPoolConfig(ctx, balance.PoolAddress)
		if err != nil {
			var notFound *db.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return 0, fmt.Errorf("failed to fetch pool config for %s: %w", balance.PoolAddress, err)
		}
		if !poolCfg.IsActive {
			continue
		}

		streakStartDate := balance.StreakStartDate
		if streakStartDate.IsZero() {
			streakStartDate = balance.Date
		}

		basePoints := balance.LowestUSD * s.composer.PoolTypeMultiplier(poolCfg.PoolType)
		durationMultiplier := s.composer.DurationMultiplier(streakStartDate, date)
		campaignMultiplier := s.composer.CampaignMultiplier(poolCfg, settings, date)

		poolPoints := roundPoints(basePoints * durationMultiplier * campaignMultiplier)
		totalPoints += poolPoints

		if err := s.db.UpsertLiquidityPoints(ctx, userAddress, balance.PoolAddress, date, poolPoints, poolCfg.PoolType); err != nil {
			return 0, fmt.Errorf("failed to upsert liquidity points for pool %s: %w", balance.PoolAddress, err)
		}

		log.Debug().
			Str("user_address", userAddress).
			Str("pool_address", balance.PoolAddress).
			Str("pool_type", poolCfg.PoolType.String()).
			Float64("lowest_usd", balance.LowestUSD).
			Float64("duration_multiplier", durationMultiplier).
			Float64("campaign_multiplier", campaignMultiplier).
			Float64("pool_points", poolPoints).
			Msg("Awarded pool liquidity points")
	}

	dayTotal := roundPoints(totalPoints * poolCountMultiplier)
	if err := s.db.UpsertDailySummary(ctx, userAddress, date, dayTotal); err != nil {
		return 0, fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	metrics.AddPointsAwarded("liquidity", dayTotal)

	log.Info().
		Str("user_address", userAddress).
		Time("date", date).
		Float64("pool_count_multiplier", poolCountMultiplier).
		Float64("liquidity_points", dayTotal).
		Msg("Awarded daily liquidity points")

	return dayTotal, nil
}

// AwardSwapPoints aggregates the day's swap volumes per (user, pool) and
// converts generated fees into points. Failures are isolated per row: one
// user's bad day must not block everyone else's swap points.
func (s *Service) AwardSwapPoints(ctx context.Context, date time.Time) error {
	log := log.Ctx(ctx)

	volumes, err := s.db.AggregateSwapVolumes(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to aggregate swap volumes: %w", err)
	}

	for _, volume := range volumes {
		feeUSD := volume.TotalVolumeUSD * s.cfg.Rewards.SwapFeeRate
		points := roundPoints(feeUSD * s.cfg.Rewards.PointsPerDollarFee)
		if points == 0 {
			continue
		}

		if err := s.db.AddSwapPoints(ctx, volume.UserAddress, volume.PoolAddress, date, points); err != nil {
			log.Error().
				Err(err).
				Str("user_address", volume.UserAddress).
				Str("pool_address", volume.PoolAddress).
				Msg("Failed to add swap points")
			continue
		}
		metrics.AddPointsAwarded("swap", points)

		log.Debug().
			Str("user_address", volume.UserAddress).
			Str("pool_address", volume.PoolAddress).
			Float64("volume_usd", volume.TotalVolumeUSD).
			Float64("swap_points", points).
			Msg("Awarded swap points")

		if err := s.cascadeReferralBonus(ctx, volume.UserAddress, date, points); err != nil {
			log.Error().
				Err(err).
				Str("user_address", volume.UserAddress).
				Msg("Failed to cascade referral bonus for swap points")
		}
	}

	return nil
}

// cascadeReferralBonus awards the referrer and referee their percentage cuts
// of a points award. Users without a recorded referrer are a no-op. Bonuses
// accumulate additively into the reserved referral rows and leave the
// triggering award untouched.
func (s *Service) cascadeReferralBonus(ctx context.Context, userAddress string, date time.Time, points float64) error {
	if points <= 0 {
		return nil
	}

	referral, err := s.db.GetReferralByReferred(ctx, userAddress)
	if err != nil {
		var notFound *db.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to resolve referral for %s: %w", userAddress, err)
	}

	referrerBonus := roundPoints(points * s.cfg.Rewards.ReferrerBonusPct)
	if referrerBonus > 0 {
		if err := s.db.AddReferralPoints(ctx, referral.ReferrerAddress, date, referrerBonus); err != nil {
			return fmt.Errorf("failed to add referrer bonus: %w", err)
		}
		metrics.AddPointsAwarded("referral", referrerBonus)
	}

	refereeBonus := roundPoints(points * s.cfg.Rewards.RefereeBonusPct)
	if refereeBonus > 0 {
		if err := s.db.AddReferralPoints(ctx, userAddress, date, refereeBonus); err != nil {
			return fmt.Errorf("failed to add referee bonus: %w", err)
		}
		metrics.AddPointsAwarded("referral", refereeBonus)
	}

	log.Ctx(ctx).Debug().
		Str("user_address", userAddress).
		Str("referrer_address", referral.ReferrerAddress).
		Float64("referrer_bonus", referrerBonus).
		Float64("referee_bonus", refereeBonus).
		Msg("Cascaded referral bonuses")

	return nil
}
