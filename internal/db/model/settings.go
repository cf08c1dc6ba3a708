package model

import (
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

const GlobalSettingsID = "singleton"

// CampaignState is the externally mutated on/off switch plus start date of a
// single campaign.
type CampaignState struct {
	IsActive  bool      `bson:"is_active"`
	StartDate time.Time `bson:"start_date"`
}

// GlobalSettings is a singleton document mutated by the admin surface and
// consumed read-only by the points engine.
type GlobalSettings struct {
	ID            string        `bson:"_id"`
	TotalPools    int           `bson:"total_pools"`
	Bootstrapping CampaignState `bson:"bootstrapping"`
	EarlySeason   CampaignState `bson:"early_season"`
	MemeSeason    CampaignState `bson:"meme_season"`
}

// CampaignState returns the state of the given campaign.
func (s *GlobalSettings) Campaign(c types.Campaign) CampaignState {
	switch c {
	case types.CampaignBootstrapping:
		return s.Bootstrapping
	case types.CampaignEarlySeason:
		return s.EarlySeason
	case types.CampaignMemeSeason:
		return s.MemeSeason
	}
	return CampaignState{}
}

// DefaultGlobalSettings is returned when the admin surface has not yet
// created the singleton: no campaigns active.
func DefaultGlobalSettings() *GlobalSettings {
	return &GlobalSettings{ID: GlobalSettingsID}
}
