package db

import (
	"context"
	"errors"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetReferralByReferred resolves the referral relationship of a referred
// user. NotFoundError means the user has no referrer; the cascade treats
// that as a no-op.
func (db *Database) GetReferralByReferred(ctx context.Context, referredAddress string) (*model.Referral, error) {
	filter := bson.M{"referred_address": referredAddress}
	res := db.collection(model.ReferralCollection).FindOne(ctx, filter)

	var referral model.Referral
	if err := res.Decode(&referral); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     referredAddress,
				Message: "no referral recorded for user",
			}
		}
		return nil, err
	}

	return &referral, nil
}

func (db *Database) SaveReferral(ctx context.Context, referral *model.Referral) error {
	_, err := db.collection(model.ReferralCollection).InsertOne(ctx, referral)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     referral.ReferredAddress,
				Message: "user already has a referrer",
			}
		}
		return err
	}
	return nil
}
