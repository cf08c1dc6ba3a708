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

func TestDailyBalance(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		doc, err := testDB.GetDailyBalance(ctx, "0xalice", "0xpool", date)
		assert.True(t, db.IsNotFoundError(err))
		assert.Nil(t, doc)
	})

	t.Run("upsert overwrites the same key", func(t *testing.T) {
		updates := []*model.DailyBalance{
			{
				UserAddress:  "0xalice",
				PoolAddress:  "0xpool",
				Date:         date,
				LowestUSD:    100,
				FinalBalance: 150,
			},
			{
				UserAddress:  "0xalice",
				PoolAddress:  "0xpool",
				Date:         date,
				LowestUSD:    80,
				FinalBalance: 120,
			},
		}

		// on first iteration we check insertion
		// on second we check that update has been applied
		for _, update := range updates {
			err := testDB.UpsertDailyBalance(ctx, update)
			require.NoError(t, err)

			doc, err := testDB.GetDailyBalance(ctx, "0xalice", "0xpool", date)
			require.NoError(t, err)
			assert.Equal(t, update.LowestUSD, doc.LowestUSD)
			assert.Equal(t, update.FinalBalance, doc.FinalBalance)
		}

		balances, err := testDB.GetDailyBalances(ctx, "0xalice", date)
		require.NoError(t, err)
		assert.Len(t, balances, 1)
	})

	t.Run("users with balances above threshold", func(t *testing.T) {
		err := testDB.UpsertDailyBalance(ctx, &model.DailyBalance{
			UserAddress:  "0xbob",
			PoolAddress:  "0xpool",
			Date:         date,
			LowestUSD:    0.5,
			FinalBalance: 0.5,
		})
		require.NoError(t, err)

		users, err := testDB.GetUsersWithBalancesAbove(ctx, date, 1)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"0xalice"}, users)
	})

	t.Run("purge old history", func(t *testing.T) {
		oldDate := date.AddDate(0, 0, -40)
		err := testDB.UpsertDailyBalance(ctx, &model.DailyBalance{
			UserAddress:  "0xalice",
			PoolAddress:  "0xpool",
			Date:         oldDate,
			LowestUSD:    10,
			FinalBalance: 10,
		})
		require.NoError(t, err)

		deleted, err := testDB.DeleteDailyBalancesBefore(ctx, date.AddDate(0, 0, -30))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = testDB.GetDailyBalance(ctx, "0xalice", "0xpool", oldDate)
		assert.True(t, db.IsNotFoundError(err))
	})
}
