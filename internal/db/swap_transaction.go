package db

import (
	"context"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
)

func (db *Database) SaveSwapTransaction(ctx context.Context, tx *model.SwapTransaction) error {
	_, err := db.collection(model.SwapTransactionCollection).InsertOne(ctx, tx)
	return err
}

// SwapVolumeResult is the aggregated swap volume of one (user, pool) on a day.
type SwapVolumeResult struct {
	UserAddress    string  `bson:"user_address"`
	PoolAddress    string  `bson:"pool_address"`
	TotalVolumeUSD float64 `bson:"total_volume_usd"`
}

// AggregateSwapVolumes groups the day's swap transactions by (user, pool) and
// sums their USD volumes using a MongoDB aggregation pipeline, so swap points
// can be computed without loading individual swaps into memory.
func (db *Database) AggregateSwapVolumes(ctx context.Context, date time.Time) ([]SwapVolumeResult, error) {
	collection := db.collection(model.SwapTransactionCollection)

	pipeline := bson.A{
		bson.M{
			"$match": bson.M{
				"date": date,
			},
		},
		bson.M{
			"$group": bson.M{
				"_id": bson.M{
					"user_address": "$user_address",
					"pool_address": "$pool_address",
				},
				"total_volume_usd": bson.M{"$sum": "$value_usd"},
			},
		},
		bson.M{
			"$project": bson.M{
				"_id":              0,
				"user_address":     "$_id.user_address",
				"pool_address":     "$_id.pool_address",
				"total_volume_usd": 1,
			},
		},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []SwapVolumeResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
