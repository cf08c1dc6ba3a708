package model

import (
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LiquidityTransaction is an append-only mint/burn ledger entry.
// CreatedAt breaks same-day ties so replay order is deterministic.
type LiquidityTransaction struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	UserAddress string                `bson:"user_address"`
	PoolAddress string                `bson:"pool_address"`
	Type        types.TransactionType `bson:"type"`
	ValueUSD    float64               `bson:"value_usd"`
	Date        time.Time             `bson:"date"`
	CreatedAt   time.Time             `bson:"created_at"`
}
