//go:build integration

package db_test

import (
	"testing"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferral(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("not found", func(t *testing.T) {
		doc, err := testDB.GetReferralByReferred(ctx, "0xnobody")
		assert.True(t, db.IsNotFoundError(err))
		assert.Nil(t, doc)
	})

	t.Run("save and resolve by referred user", func(t *testing.T) {
		referral := &model.Referral{
			Code:            "ref-1",
			ReferrerAddress: "0xreferrer",
			ReferredAddress: "0xreferred",
			CreatedAt:       time.Now(),
		}
		err := testDB.SaveReferral(ctx, referral)
		require.NoError(t, err)

		found, err := testDB.GetReferralByReferred(ctx, "0xreferred")
		require.NoError(t, err)
		assert.Equal(t, referral.ReferrerAddress, found.ReferrerAddress)
		assert.Equal(t, referral.Code, found.Code)
	})

	t.Run("a user can have only one referrer", func(t *testing.T) {
		err := testDB.SaveReferral(ctx, &model.Referral{
			Code:            "ref-2",
			ReferrerAddress: "0xother",
			ReferredAddress: "0xreferred",
			CreatedAt:       time.Now(),
		})
		assert.True(t, db.IsDuplicateKeyError(err))
	})
}

func TestGlobalSettings(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("defaults when the singleton is absent", func(t *testing.T) {
		settings, err := testDB.GetGlobalSettings(ctx)
		require.NoError(t, err)
		assert.False(t, settings.Bootstrapping.IsActive)
		assert.False(t, settings.EarlySeason.IsActive)
		assert.False(t, settings.MemeSeason.IsActive)
	})

	t.Run("reads the admin-written document", func(t *testing.T) {
		doc := &model.GlobalSettings{
			ID: model.GlobalSettingsID,
			Bootstrapping: model.CampaignState{
				IsActive:  true,
				StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			},
		}
		_, err := mongoDB.Collection(model.GlobalSettingsCollection).InsertOne(ctx, doc)
		require.NoError(t, err)

		settings, err := testDB.GetGlobalSettings(ctx)
		require.NoError(t, err)
		assert.True(t, settings.Bootstrapping.IsActive)
		assert.False(t, settings.EarlySeason.IsActive)
	})
}
