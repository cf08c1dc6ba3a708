package db

import (
	"context"
	"errors"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetGlobalSettings reads the singleton settings document. The document is
// owned by the admin surface; when it does not exist yet the defaults (no
// campaigns active) are returned without writing anything.
func (db *Database) GetGlobalSettings(ctx context.Context) (*model.GlobalSettings, error) {
	filter := bson.M{"_id": model.GlobalSettingsID}
	res := db.collection(model.GlobalSettingsCollection).FindOne(ctx, filter)

	var settings model.GlobalSettings
	if err := res.Decode(&settings); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.DefaultGlobalSettings(), nil
		}
		return nil, err
	}

	return &settings, nil
}
