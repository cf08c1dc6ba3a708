package services

import (
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/utils"
)

// MultiplierComposer computes the pool-type, duration, campaign and pool-count
// multipliers. Pure reads of persisted state, no side effects, so every
// dimension is testable in isolation.
type MultiplierComposer struct {
	cfg *config.RewardsConfig
}

func NewMultiplierComposer(cfg *config.RewardsConfig) *MultiplierComposer {
	return &MultiplierComposer{cfg: cfg}
}

// PoolTypeMultiplier returns the base points-per-dollar rate of the pool type.
func (c *MultiplierComposer) PoolTypeMultiplier(poolType types.PoolType) float64 {
	switch poolType {
	case types.PoolTypeStableStable:
		return c.cfg.PoolMultipliers.StableStable
	case types.PoolTypeVolatileVolatile:
		return c.cfg.PoolMultipliers.VolatileVolatile
	case types.PoolTypeVolatileStable:
		return c.cfg.PoolMultipliers.VolatileStable
	}
	// unclassified pools earn the highest tier, matching lazy classification
	return c.cfg.PoolMultipliers.VolatileStable
}

// DurationMultiplier is a non-decreasing step function of whole days elapsed
// since the streak started. Left-closed intervals, no interpolation.
func (c *MultiplierComposer) DurationMultiplier(streakStartDate, date time.Time) float64 {
	if streakStartDate.IsZero() {
		return 1
	}
	daysHeld := utils.DaysBetween(streakStartDate, date)

	multiplier := 1.0
	for _, tier := range c.cfg.DurationTiers {
		if daysHeld < tier.MinDays {
			break
		}
		multiplier = tier.Multiplier
	}
	return multiplier
}

// CampaignMultiplier composes the multipliers of every campaign that is both
// globally active and flagged eligible on the pool. Simultaneous campaigns
// compose multiplicatively.
func (c *MultiplierComposer) CampaignMultiplier(
	pool *model.PoolConfig,
	settings *model.GlobalSettings,
	date time.Time,
) float64 {
	multiplier := 1.0
	for _, campaign := range types.Campaigns() {
		state := settings.Campaign(campaign)
		if !state.IsActive || !pool.EligibleFor(campaign) {
			continue
		}
		elapsed := utils.DaysBetween(state.StartDate, date)
		multiplier *= c.campaignDecay(elapsed, c.cfg.CampaignDurationDays(campaign))
	}
	return multiplier
}

// campaignDecay decays linearly from the peak multiplier at day zero down to
// 1x once the campaign duration has elapsed.
func (c *MultiplierComposer) campaignDecay(elapsedDays, durationDays int) float64 {
	if elapsedDays < 0 || durationDays <= 0 {
		return 1
	}
	peak := c.cfg.CampaignPeakMultiplier
	decayed := peak - float64(elapsedDays)/float64(durationDays)*(peak-1)
	if decayed < 1 {
		return 1
	}
	return decayed
}

// PoolCountMultiplier rewards spreading liquidity across pools, capped at the
// configured maximum. Applied once per user per day, after summing per-pool
// points.
func (c *MultiplierComposer) PoolCountMultiplier(poolCount int) float64 {
	if poolCount > c.cfg.MaxPoolCountMultiplier {
		return float64(c.cfg.MaxPoolCountMultiplier)
	}
	if poolCount < 1 {
		return 1
	}
	return float64(poolCount)
}
