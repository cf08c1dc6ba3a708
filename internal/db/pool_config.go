package db

import (
	"context"
	"errors"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *Database) GetPoolConfig(ctx context.Context, poolAddress string) (*model.PoolConfig, error) {
	filter := bson.M{"_id": poolAddress}
	res := db.collection(model.PoolConfigCollection).FindOne(ctx, filter)

	var cfg model.PoolConfig
	if err := res.Decode(&cfg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     poolAddress,
				Message: "pool config not found by address",
			}
		}
		return nil, err
	}

	return &cfg, nil
}

func (db *Database) SavePoolConfig(ctx context.Context, cfg *model.PoolConfig) error {
	_, err := db.collection(model.PoolConfigCollection).InsertOne(ctx, cfg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     cfg.PoolAddress,
				Message: "pool config already exists",
			}
		}
		return err
	}
	return nil
}
