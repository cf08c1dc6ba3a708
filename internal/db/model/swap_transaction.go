package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SwapTransaction records a single swap with its clamped USD valuation.
type SwapTransaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserAddress string             `bson:"user_address"`
	PoolAddress string             `bson:"pool_address"`
	TokenIn     string             `bson:"token_in"`
	TokenOut    string             `bson:"token_out"`
	AmountIn    float64            `bson:"amount_in"`
	AmountOut   float64            `bson:"amount_out"`
	ValueUSD    float64            `bson:"value_usd"`
	Date        time.Time          `bson:"date"`
}
