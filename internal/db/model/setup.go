package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProcessedEventCollection       = "processed_events"
	PoolConfigCollection           = "pool_configs"
	LiquidityTransactionCollection = "liquidity_transactions"
	SwapTransactionCollection      = "swap_transactions"
	DailyBalanceCollection         = "daily_balances"
	UserPointsCollection           = "user_points"
	ReferralCollection             = "referrals"
	GlobalSettingsCollection       = "global_settings"
)

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	ProcessedEventCollection: {
		{Indexes: map[string]int{"block_height": -1}, Unique: false},
	},
	PoolConfigCollection: {{Indexes: map[string]int{}}},
	LiquidityTransactionCollection: {
		{Indexes: map[string]int{"user_address": 1, "date": 1}, Unique: false},
		{Indexes: map[string]int{"date": 1}, Unique: false},
	},
	SwapTransactionCollection: {
		{Indexes: map[string]int{"user_address": 1, "pool_address": 1, "date": 1}, Unique: false},
		{Indexes: map[string]int{"date": 1}, Unique: false},
	},
	DailyBalanceCollection: {
		{Indexes: map[string]int{"user_address": 1, "pool_address": 1, "date": 1}, Unique: true},
		{Indexes: map[string]int{"date": 1}, Unique: false},
	},
	UserPointsCollection: {
		{Indexes: map[string]int{"user_address": 1, "pool_address": 1, "date": 1}, Unique: true},
	},
	ReferralCollection: {
		{Indexes: map[string]int{"referred_address": 1}, Unique: true},
	},
	GlobalSettingsCollection: {{Indexes: map[string]int{}}},
}

// Setup creates the collections and indexes the engine relies on. The unique
// indexes are load-bearing: they enforce the (event_id), (user, pool, date)
// dedup contracts.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	database := client.Database(cfg.DbName)

	for name, idxs := range collections {
		if err := createCollection(ctx, database, name); err != nil {
			return err
		}
		for _, idx := range idxs {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	return client.Disconnect(ctx)
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) error {
	// idempotent: NamespaceExists errors are fine on restart
	err := database.CreateCollection(ctx, collectionName)
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
			return nil
		}
		return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
	}
	return nil
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	if len(idx.Indexes) == 0 {
		return nil
	}

	keys := bson.D{}
	for field, direction := range idx.Indexes {
		keys = append(keys, bson.E{Key: field, Value: direction})
	}

	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(idx.Unique),
	}
	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}

	return nil
}
