package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

// DurationTier maps a minimum streak length (whole days) to a multiplier.
type DurationTier struct {
	MinDays    int     `mapstructure:"min-days"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// PoolTypeMultipliers holds the base points-per-dollar rate per pool type.
type PoolTypeMultipliers struct {
	StableStable     float64 `mapstructure:"stable-stable"`
	VolatileVolatile float64 `mapstructure:"volatile-volatile"`
	VolatileStable   float64 `mapstructure:"volatile-stable"`
}

type RewardsConfig struct {
	// MinLiquidityThreshold is the USD floor below which a daily balance is
	// treated as absent.
	MinLiquidityThreshold float64 `mapstructure:"min-liquidity-threshold"`
	// SafeMaxValueUSD clamps event valuations to contain bad upstream data.
	SafeMaxValueUSD    float64             `mapstructure:"safe-max-value-usd"`
	SwapFeeRate        float64             `mapstructure:"swap-fee-rate"`
	PointsPerDollarFee float64             `mapstructure:"points-per-dollar-fee"`
	ReferrerBonusPct   float64             `mapstructure:"referrer-bonus-pct"`
	RefereeBonusPct    float64             `mapstructure:"referee-bonus-pct"`
	PoolMultipliers    PoolTypeMultipliers `mapstructure:"pool-multipliers"`
	// DurationTiers must be sorted ascending by min-days. Tier 0 (below the
	// first threshold) is always 1x.
	DurationTiers []DurationTier `mapstructure:"duration-tiers"`
	// CampaignDurationDays drives the linear decay window per campaign.
	BootstrappingDurationDays int `mapstructure:"bootstrapping-duration-days"`
	EarlySeasonDurationDays   int `mapstructure:"early-season-duration-days"`
	MemeSeasonDurationDays    int `mapstructure:"meme-season-duration-days"`
	// CampaignPeakMultiplier is the day-zero campaign multiplier.
	CampaignPeakMultiplier float64 `mapstructure:"campaign-peak-multiplier"`
	// MaxPoolCountMultiplier caps the per-user pool-count multiplier.
	MaxPoolCountMultiplier int `mapstructure:"max-pool-count-multiplier"`
	// StableTokens lists token addresses classified as stablecoins for pool
	// type derivation.
	StableTokens []string `mapstructure:"stable-tokens"`
}

func defaultDurationTiers() []DurationTier {
	return []DurationTier{
		{MinDays: 7, Multiplier: 1.5},
		{MinDays: 15, Multiplier: 2},
		{MinDays: 30, Multiplier: 3},
		{MinDays: 60, Multiplier: 4},
		{MinDays: 90, Multiplier: 5},
	}
}

func (cfg *RewardsConfig) Validate() error {
	if cfg.MinLiquidityThreshold <= 0 {
		cfg.MinLiquidityThreshold = 1
	}
	if cfg.SafeMaxValueUSD <= 0 {
		cfg.SafeMaxValueUSD = 1e12
	}
	if cfg.SwapFeeRate <= 0 {
		cfg.SwapFeeRate = 0.001
	}
	if cfg.PointsPerDollarFee <= 0 {
		cfg.PointsPerDollarFee = 200
	}
	if cfg.ReferrerBonusPct < 0 || cfg.ReferrerBonusPct > 1 {
		return errors.New("referrer-bonus-pct must be within [0, 1]")
	}
	if cfg.RefereeBonusPct < 0 || cfg.RefereeBonusPct > 1 {
		return errors.New("referee-bonus-pct must be within [0, 1]")
	}
	if cfg.PoolMultipliers == (PoolTypeMultipliers{}) {
		cfg.PoolMultipliers = PoolTypeMultipliers{
			StableStable:     2.5,
			VolatileVolatile: 5,
			VolatileStable:   10,
		}
	}
	if len(cfg.DurationTiers) == 0 {
		cfg.DurationTiers = defaultDurationTiers()
	}
	for i := 1; i < len(cfg.DurationTiers); i++ {
		prev, cur := cfg.DurationTiers[i-1], cfg.DurationTiers[i]
		if cur.MinDays <= prev.MinDays {
			return fmt.Errorf("duration-tiers must be sorted ascending by min-days, got %d after %d", cur.MinDays, prev.MinDays)
		}
		if cur.Multiplier < prev.Multiplier {
			return errors.New("duration-tiers multipliers must be non-decreasing")
		}
	}
	if cfg.BootstrappingDurationDays <= 0 {
		cfg.BootstrappingDurationDays = 14
	}
	if cfg.EarlySeasonDurationDays <= 0 {
		cfg.EarlySeasonDurationDays = 28
	}
	if cfg.MemeSeasonDurationDays <= 0 {
		cfg.MemeSeasonDurationDays = 14
	}
	if cfg.CampaignPeakMultiplier <= 0 {
		cfg.CampaignPeakMultiplier = 5
	}
	if cfg.MaxPoolCountMultiplier <= 0 {
		cfg.MaxPoolCountMultiplier = 4
	}

	return nil
}

// IsStableToken reports whether the token address is a configured stablecoin.
func (cfg *RewardsConfig) IsStableToken(address string) bool {
	for _, t := range cfg.StableTokens {
		if strings.EqualFold(t, address) {
			return true
		}
	}
	return false
}

// CampaignDurationDays returns the decay window of the given campaign.
func (cfg *RewardsConfig) CampaignDurationDays(c types.Campaign) int {
	switch c {
	case types.CampaignBootstrapping:
		return cfg.BootstrappingDurationDays
	case types.CampaignEarlySeason:
		return cfg.EarlySeasonDurationDays
	case types.CampaignMemeSeason:
		return cfg.MemeSeasonDurationDays
	}
	return 0
}
