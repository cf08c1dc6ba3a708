package db

import (
	"context"
	"errors"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertDailyBalance overwrites the (user, pool, date) balance record. The
// daily calculation is idempotent under re-run because of these overwrite
// semantics.
func (db *Database) UpsertDailyBalance(ctx context.Context, balance *model.DailyBalance) error {
	filter := bson.M{
		"user_address": balance.UserAddress,
		"pool_address": balance.PoolAddress,
		"date":         balance.Date,
	}
	update := bson.M{"$set": balance}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.DailyBalanceCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetDailyBalance(ctx context.Context, userAddress, poolAddress string, date time.Time) (*model.DailyBalance, error) {
	filter := bson.M{
		"user_address": userAddress,
		"pool_address": poolAddress,
		"date":         date,
	}
	res := db.collection(model.DailyBalanceCollection).FindOne(ctx, filter)

	var balance model.DailyBalance
	if err := res.Decode(&balance); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     userAddress + "/" + poolAddress,
				Message: "daily balance not found",
			}
		}
		return nil, err
	}

	return &balance, nil
}

// GetDailyBalances returns all of the user's balance records for the day.
func (db *Database) GetDailyBalances(ctx context.Context, userAddress string, date time.Time) ([]model.DailyBalance, error) {
	filter := bson.M{
		"user_address": userAddress,
		"date":         date,
	}

	cursor, err := db.collection(model.DailyBalanceCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var balances []model.DailyBalance
	if err := cursor.All(ctx, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetUsersWithBalancesAbove returns the distinct users holding a balance
// record above the threshold on the given day.
func (db *Database) GetUsersWithBalancesAbove(ctx context.Context, date time.Time, threshold float64) ([]string, error) {
	filter := bson.M{
		"date":      date,
		"value_usd": bson.M{"$gt": threshold},
	}
	values, err := db.collection(model.DailyBalanceCollection).Distinct(ctx, "user_address", filter)
	if err != nil {
		return nil, err
	}

	users := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			users = append(users, s)
		}
	}
	return users, nil
}

// DeleteDailyBalancesBefore purges balance history older than the cutoff.
func (db *Database) DeleteDailyBalancesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := db.collection(model.DailyBalanceCollection).
		DeleteMany(ctx, bson.M{"date": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
