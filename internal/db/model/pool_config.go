package model

import (
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

// PoolConfig is created lazily on the first observed event for a pool. The
// pool type is derived once from stablecoin classification; eligibility flags
// are mutated only by the admin surface and read-only to the engine.
type PoolConfig struct {
	PoolAddress   string         `bson:"_id"`
	Token0Address string         `bson:"token0_address"`
	Token1Address string         `bson:"token1_address"`
	PoolType      types.PoolType `bson:"pool_type"`
	IsActive      bool           `bson:"is_active"`

	BootstrappingEligible bool `bson:"bootstrapping_eligible"`
	EarlySeasonEligible   bool `bson:"early_season_eligible"`
	MemeSeasonEligible    bool `bson:"meme_season_eligible"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EligibleFor reports whether the pool is flagged eligible for the campaign.
func (p *PoolConfig) EligibleFor(c types.Campaign) bool {
	switch c {
	case types.CampaignBootstrapping:
		return p.BootstrappingEligible
	case types.CampaignEarlySeason:
		return p.EarlySeasonEligible
	case types.CampaignMemeSeason:
		return p.MemeSeasonEligible
	}
	return false
}
