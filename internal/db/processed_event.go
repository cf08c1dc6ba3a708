package db

import (
	"context"
	"errors"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) HasProcessedEvent(ctx context.Context, eventID string) (bool, error) {
	filter := bson.M{"_id": eventID}
	count, err := db.collection(model.ProcessedEventCollection).CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (db *Database) MarkEventProcessed(ctx context.Context, eventID string, blockHeight uint64) error {
	doc := model.NewProcessedEvent(eventID, blockHeight)
	_, err := db.collection(model.ProcessedEventCollection).InsertOne(ctx, doc)
	if err != nil {
		// marking the same event twice is harmless
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}
	return nil
}

// GetLastProcessedBlock returns the ingestion cursor: the maximum block height
// among processed events, or 0 if none exist.
func (db *Database) GetLastProcessedBlock(ctx context.Context) (uint64, error) {
	opts := options.FindOne().SetSort(bson.M{"block_height": -1})
	var result model.ProcessedEvent
	err := db.collection(model.ProcessedEventCollection).
		FindOne(ctx, bson.M{}, opts).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.BlockHeight, nil
}

// DeleteProcessedEventsBelow purges dedup records whose block height is below
// the given height. Used by the retention cleanup; the cursor is preserved
// because the newest records are never purged.
func (db *Database) DeleteProcessedEventsBelow(ctx context.Context, height uint64) (int64, error) {
	res, err := db.collection(model.ProcessedEventCollection).
		DeleteMany(ctx, bson.M{"block_height": bson.M{"$lt": height}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
