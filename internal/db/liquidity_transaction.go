package db

import (
	"context"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) SaveLiquidityTransaction(ctx context.Context, tx *model.LiquidityTransaction) error {
	_, err := db.collection(model.LiquidityTransactionCollection).InsertOne(ctx, tx)
	return err
}

// GetLiquidityTransactions returns the user's mint/burn ledger entries for the
// given day, ordered by (date, created_at) ascending so replay order is
// deterministic.
func (db *Database) GetLiquidityTransactions(ctx context.Context, userAddress string, date time.Time) ([]model.LiquidityTransaction, error) {
	filter := bson.M{
		"user_address": userAddress,
		"date":         date,
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := db.collection(model.LiquidityTransactionCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []model.LiquidityTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetUsersWithLiquidityTransactions returns the distinct users that have
// ledger entries on the given day.
func (db *Database) GetUsersWithLiquidityTransactions(ctx context.Context, date time.Time) ([]string, error) {
	values, err := db.collection(model.LiquidityTransactionCollection).
		Distinct(ctx, "user_address", bson.M{"date": date})
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
