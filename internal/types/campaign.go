package types

// Campaign is a time-boxed promotional multiplier. The set is closed so the
// multiplier composer can match exhaustively; adding a campaign is a
// compile-time-checked change.
type Campaign string

const (
	CampaignBootstrapping Campaign = "bootstrapping"
	CampaignEarlySeason   Campaign = "early_season"
	CampaignMemeSeason    Campaign = "meme_season"
)

func (c Campaign) String() string {
	return string(c)
}

// Campaigns lists every known campaign in a fixed order.
func Campaigns() []Campaign {
	return []Campaign{CampaignBootstrapping, CampaignEarlySeason, CampaignMemeSeason}
}
