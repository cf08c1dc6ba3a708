package model

import (
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

// Reserved pool keys for rows that are not tied to a single pool.
const (
	// PoolKeyAllPools marks the per-user daily summary row.
	PoolKeyAllPools = "ALL"
	// PoolKeyReferral marks bonus-only referral rows.
	PoolKeyReferral = "REFERRAL"
)

// UserPoints is one (user, pool, day) points row. Liquidity points are
// overwritten on recomputation; swap and referral points accumulate.
type UserPoints struct {
	UserAddress     string         `bson:"user_address"`
	PoolAddress     string         `bson:"pool_address"`
	Date            time.Time      `bson:"date"`
	LiquidityPoints float64        `bson:"liquidity_points"`
	SwapPoints      float64        `bson:"swap_points"`
	ReferralPoints  float64        `bson:"referral_points"`
	PoolType        types.PoolType `bson:"pool_type,omitempty"`
}
