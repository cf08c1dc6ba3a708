package db

import (
	"context"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertLiquidityPoints overwrites the liquidity points of the (user, pool,
// date) row. Balances are recomputed wholesale each day, so liquidity points
// must never accumulate across re-runs.
func (db *Database) UpsertLiquidityPoints(ctx context.Context, userAddress, poolAddress string, date time.Time, points float64, poolType types.PoolType) error {
	filter := bson.M{
		"user_address": userAddress,
		"pool_address": poolAddress,
		"date":         date,
	}
	update := bson.M{
		"$set": bson.M{
			"liquidity_points": points,
			"pool_type":        poolType,
		},
		"$setOnInsert": bson.M{
			"swap_points":     0.0,
			"referral_points": 0.0,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.UserPointsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// AddSwapPoints accumulates swap points into the (user, pool, date) row.
// Additive on purpose: multiple batch runs may touch the same day.
func (db *Database) AddSwapPoints(ctx context.Context, userAddress, poolAddress string, date time.Time, points float64) error {
	filter := bson.M{
		"user_address": userAddress,
		"pool_address": poolAddress,
		"date":         date,
	}
	update := bson.M{
		"$inc": bson.M{"swap_points": points},
		"$setOnInsert": bson.M{
			"liquidity_points": 0.0,
			"referral_points":  0.0,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.UserPointsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// AddReferralPoints accumulates referral bonus points into the user's
// reserved referral row for the day, independent of the triggering pool.
func (db *Database) AddReferralPoints(ctx context.Context, userAddress string, date time.Time, points float64) error {
	filter := bson.M{
		"user_address": userAddress,
		"pool_address": model.PoolKeyReferral,
		"date":         date,
	}
	update := bson.M{
		"$inc": bson.M{"referral_points": points},
		"$setOnInsert": bson.M{
			"liquidity_points": 0.0,
			"swap_points":      0.0,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.UserPointsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// UpsertDailySummary overwrites the user's daily summary row, keyed by the
// reserved ALL pool key.
func (db *Database) UpsertDailySummary(ctx context.Context, userAddress string, date time.Time, liquidityPoints float64) error {
	filter := bson.M{
		"user_address": userAddress,
		"pool_address": model.PoolKeyAllPools,
		"date":         date,
	}
	update := bson.M{
		"$set": bson.M{"liquidity_points": liquidityPoints},
		"$setOnInsert": bson.M{
			"swap_points":     0.0,
			"referral_points": 0.0,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.UserPointsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// ResetDailyAdditivePoints zeroes the day's swap and referral points across
// all users. Swap and referral points accumulate via $inc, so the daily cycle
// must zero them before re-awarding a day.
func (db *Database) ResetDailyAdditivePoints(ctx context.Context, date time.Time) (int64, error) {
	res, err := db.collection(model.UserPointsCollection).UpdateMany(ctx,
		bson.M{"date": date},
		bson.M{"$set": bson.M{
			"swap_points":     0.0,
			"referral_points": 0.0,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// GetUserPoints returns all points rows of a user on the given day.
func (db *Database) GetUserPoints(ctx context.Context, userAddress string, date time.Time) ([]model.UserPoints, error) {
	filter := bson.M{
		"user_address": userAddress,
		"date":         date,
	}

	cursor, err := db.collection(model.UserPointsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []model.UserPoints
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
