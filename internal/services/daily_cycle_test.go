//go:build integration

package services

import (
	"testing"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
	"github.com/stretchr/testify/require"
)

func seedPoolConfig(t *testing.T, poolAddress string, poolType types.PoolType) {
	t.Helper()

	err := testDB.SavePoolConfig(t.Context(), &model.PoolConfig{
		PoolAddress:   poolAddress,
		Token0Address: "0xtoken0",
		Token1Address: "0xtoken1",
		PoolType:      poolType,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
	require.NoError(t, err)
}

func TestComputeAndStoreDailyBalances(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	service := testService(t)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	previousDate := date.AddDate(0, 0, -1)
	userAddress := "0xalice"
	poolAddress := "0xpool-a"

	t.Run("replays the day's ledger on top of the carried balance", func(t *testing.T) {
		err := testDB.UpsertDailyBalance(ctx, &model.DailyBalance{
			UserAddress:     userAddress,
			PoolAddress:     poolAddress,
			Date:            previousDate,
			LowestUSD:       100,
			FinalBalance:    100,
			StreakStartDate: previousDate,
		})
		require.NoError(t, err)

		err = testDB.SaveLiquidityTransaction(ctx, &model.LiquidityTransaction{
			UserAddress: userAddress,
			PoolAddress: poolAddress,
			Type:        types.TransactionBurn,
			ValueUSD:    60,
			Date:        date,
			CreatedAt:   date.Add(10 * time.Hour),
		})
		require.NoError(t, err)
		err = testDB.SaveLiquidityTransaction(ctx, &model.LiquidityTransaction{
			UserAddress: userAddress,
			PoolAddress: poolAddress,
			Type:        types.TransactionMint,
			ValueUSD:    200,
			Date:        date,
			CreatedAt:   date.Add(12 * time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, service.ComputeAndStoreDailyBalances(ctx, userAddress, date))

		balance, err := testDB.GetDailyBalance(ctx, userAddress, poolAddress, date)
		require.NoError(t, err)
		require.Equal(t, 40.0, balance.LowestUSD)
		require.Equal(t, 240.0, balance.FinalBalance)
		// prior ending balance stayed above the threshold, streak is inherited
		require.WithinDuration(t, previousDate, balance.StreakStartDate, time.Second)
	})

	t.Run("re-running the same day is idempotent", func(t *testing.T) {
		require.NoError(t, service.ComputeAndStoreDailyBalances(ctx, userAddress, date))

		balances, err := testDB.GetDailyBalances(ctx, userAddress, date)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		require.Equal(t, 40.0, balances[0].LowestUSD)
		require.Equal(t, 240.0, balances[0].FinalBalance)
	})

	t.Run("a pool dipping below the threshold leaves no record", func(t *testing.T) {
		otherPool := "0xpool-dust"
		err := testDB.SaveLiquidityTransaction(ctx, &model.LiquidityTransaction{
			UserAddress: userAddress,
			PoolAddress: otherPool,
			Type:        types.TransactionMint,
			ValueUSD:    0.5,
			Date:        date,
			CreatedAt:   date.Add(time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, service.ComputeAndStoreDailyBalances(ctx, userAddress, date))

		_, err = testDB.GetDailyBalance(ctx, userAddress, otherPool, date)
		require.Error(t, err)
	})
}

func TestAwardDailyLiquidityPoints(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	service := testService(t)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	userAddress := "0xbob"

	seedPoolConfig(t, "0xpool-vs", types.PoolTypeVolatileStable)
	seedPoolConfig(t, "0xpool-ss", types.PoolTypeStableStable)

	err := testDB.UpsertDailyBalance(ctx, &model.DailyBalance{
		UserAddress:     userAddress,
		PoolAddress:     "0xpool-vs",
		Date:            date,
		LowestUSD:       100,
		FinalBalance:    100,
		StreakStartDate: date.AddDate(0, 0, -10),
	})
	require.NoError(t, err)
	err = testDB.UpsertDailyBalance(ctx, &model.DailyBalance{
		UserAddress:     userAddress,
		PoolAddress:     "0xpool-ss",
		Date:            date,
		LowestUSD:       50,
		FinalBalance:    50,
		StreakStartDate: date,
	})
	require.NoError(t, err)

	// 100*10*1.5 + 50*2.5*1 = 1625, doubled by the two-pool multiplier
	dayTotal, err := service.AwardDailyLiquidityPoints(ctx, userAddress, date)
	require.NoError(t, err)
	require.Equal(t, 3250.0, dayTotal)

	rows, err := testDB.GetUserPoints(ctx, userAddress, date)
	require.NoError(t, err)

	byPool := make(map[string]model.UserPoints)
	for _, row := range rows {
		byPool[row.PoolAddress] = row
	}
	// per-pool rows hold the pre-pool-count points
	require.Equal(t, 1500.0, byPool["0xpool-vs"].LiquidityPoints)
	require.Equal(t, 125.0, byPool["0xpool-ss"].LiquidityPoints)
	require.Equal(t, 3250.0, byPool[model.PoolKeyAllPools].LiquidityPoints)

	t.Run("recomputation overwrites instead of accumulating", func(t *testing.T) {
		dayTotal, err := service.AwardDailyLiquidityPoints(ctx, userAddress, date)
		require.NoError(t, err)
		require.Equal(t, 3250.0, dayTotal)

		rows, err := testDB.GetUserPoints(ctx, userAddress, date)
		require.NoError(t, err)
		for _, row := range rows {
			if row.PoolAddress == model.PoolKeyAllPools {
				require.Equal(t, 3250.0, row.LiquidityPoints)
			}
		}
	})

	t.Run("inactive pools earn nothing", func(t *testing.T) {
		inactiveUser := "0xcarol"
		err := testDB.SavePoolConfig(ctx, &model.PoolConfig{
			PoolAddress: "0xpool-off",
			PoolType:    types.PoolTypeVolatileStable,
			IsActive:    false,
		})
		require.NoError(t, err)
		err = testDB.UpsertDailyBalance(ctx, &model.DailyBalance{
			UserAddress:     inactiveUser,
			PoolAddress:     "0xpool-off",
			Date:            date,
			LowestUSD:       500,
			FinalBalance:    500,
			StreakStartDate: date,
		})
		require.NoError(t, err)

		dayTotal, err := service.AwardDailyLiquidityPoints(ctx, inactiveUser, date)
		require.NoError(t, err)
		require.Equal(t, 0.0, dayTotal)
	})
}

func TestReferralCascade(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	service := testService(t)
	service.cfg.Rewards.ReferrerBonusPct = 0.1
	service.cfg.Rewards.RefereeBonusPct = 0.05

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	err := testDB.SaveReferral(ctx, &model.Referral{
		Code:            "ref-code-1",
		ReferrerAddress: "0xreferrer",
		ReferredAddress: "0xreferred",
		CreatedAt:       time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, service.cascadeReferralBonus(ctx, "0xreferred", date, 1000))

	referrerRows, err := testDB.GetUserPoints(ctx, "0xreferrer", date)
	require.NoError(t, err)
	require.Len(t, referrerRows, 1)
	require.Equal(t, model.PoolKeyReferral, referrerRows[0].PoolAddress)
	require.Equal(t, 100.0, referrerRows[0].ReferralPoints)

	refereeRows, err := testDB.GetUserPoints(ctx, "0xreferred", date)
	require.NoError(t, err)
	require.Len(t, refereeRows, 1)
	require.Equal(t, 50.0, refereeRows[0].ReferralPoints)

	t.Run("bonuses accumulate across awards", func(t *testing.T) {
		require.NoError(t, service.cascadeReferralBonus(ctx, "0xreferred", date, 1000))

		referrerRows, err := testDB.GetUserPoints(ctx, "0xreferrer", date)
		require.NoError(t, err)
		require.Equal(t, 200.0, referrerRows[0].ReferralPoints)
	})

	t.Run("users without a referrer are a no-op", func(t *testing.T) {
		require.NoError(t, service.cascadeReferralBonus(ctx, "0xnobody", date, 1000))

		rows, err := testDB.GetUserPoints(ctx, "0xnobody", date)
		require.NoError(t, err)
		require.Empty(t, rows)
	})
}

func TestAwardSwapPoints(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	service := testService(t)
	date := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	swaps := []model.SwapTransaction{
		{UserAddress: "0xfay", PoolAddress: "0xpool-a", ValueUSD: 1000, Date: date},
		{UserAddress: "0xfay", PoolAddress: "0xpool-b", ValueUSD: 500, Date: date},
		{UserAddress: "0xgus", PoolAddress: "0xpool-a", ValueUSD: 250, Date: date},
		// rounds to zero points, no row should be written
		{UserAddress: "0xhal", PoolAddress: "0xpool-a", ValueUSD: 0, Date: date},
	}
	for i := range swaps {
		require.NoError(t, testDB.SaveSwapTransaction(ctx, &swaps[i]))
	}

	require.NoError(t, service.AwardSwapPoints(ctx, date))

	fayRows, err := testDB.GetUserPoints(ctx, "0xfay", date)
	require.NoError(t, err)
	require.Len(t, fayRows, 2)
	byPool := make(map[string]model.UserPoints)
	for _, row := range fayRows {
		byPool[row.PoolAddress] = row
	}
	// $1000 volume * 0.1% fee * 200 points per fee dollar
	require.Equal(t, 200.0, byPool["0xpool-a"].SwapPoints)
	require.Equal(t, 100.0, byPool["0xpool-b"].SwapPoints)

	gusRows, err := testDB.GetUserPoints(ctx, "0xgus", date)
	require.NoError(t, err)
	require.Len(t, gusRows, 1)
	require.Equal(t, 50.0, gusRows[0].SwapPoints)

	halRows, err := testDB.GetUserPoints(ctx, "0xhal", date)
	require.NoError(t, err)
	require.Empty(t, halRows)
}

func TestProcessDay(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	service := testService(t)
	service.cfg.Rewards.ReferrerBonusPct = 0.1

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	userAddress := "0xdave"
	poolAddress := "0xpool-e2e"

	seedPoolConfig(t, poolAddress, types.PoolTypeVolatileStable)

	err := testDB.SaveReferral(ctx, &model.Referral{
		Code:            "ref-e2e",
		ReferrerAddress: "0xerin",
		ReferredAddress: userAddress,
		CreatedAt:       time.Now(),
	})
	require.NoError(t, err)

	err = testDB.SaveLiquidityTransaction(ctx, &model.LiquidityTransaction{
		UserAddress: userAddress,
		PoolAddress: poolAddress,
		Type:        types.TransactionMint,
		ValueUSD:    100,
		Date:        date,
		CreatedAt:   date.Add(time.Hour),
	})
	require.NoError(t, err)

	err = testDB.SaveSwapTransaction(ctx, &model.SwapTransaction{
		UserAddress: userAddress,
		PoolAddress: poolAddress,
		TokenIn:     "0xtoken0",
		TokenOut:    "0xtoken1",
		AmountIn:    10,
		AmountOut:   9.9,
		ValueUSD:    1000,
		Date:        date,
	})
	require.NoError(t, err)

	require.NoError(t, service.ProcessDay(ctx, date))

	balance, err := testDB.GetDailyBalance(ctx, userAddress, poolAddress, date)
	require.NoError(t, err)
	require.Equal(t, 100.0, balance.LowestUSD)
	require.Equal(t, 100.0, balance.FinalBalance)
	// first day above the threshold starts the streak
	require.WithinDuration(t, date, balance.StreakStartDate, time.Second)

	rows, err := testDB.GetUserPoints(ctx, userAddress, date)
	require.NoError(t, err)

	byPool := make(map[string]model.UserPoints)
	for _, row := range rows {
		byPool[row.PoolAddress] = row
	}
	// liquidity: 100 * 10x pool type, no streak or campaign yet
	require.Equal(t, 1000.0, byPool[model.PoolKeyAllPools].LiquidityPoints)
	// swap: $1000 volume * 0.1% fee * 200 points per fee dollar
	require.Equal(t, 200.0, byPool[poolAddress].SwapPoints)

	// referrer bonus: 10% of (1000 liquidity + 200 swap)
	referrerRows, err := testDB.GetUserPoints(ctx, "0xerin", date)
	require.NoError(t, err)
	require.Len(t, referrerRows, 1)
	require.Equal(t, 120.0, referrerRows[0].ReferralPoints)

	t.Run("re-running the day does not double count", func(t *testing.T) {
		require.NoError(t, service.ProcessDay(ctx, date))

		rows, err := testDB.GetUserPoints(ctx, userAddress, date)
		require.NoError(t, err)
		byPool := make(map[string]model.UserPoints)
		for _, row := range rows {
			byPool[row.PoolAddress] = row
		}
		require.Equal(t, 1000.0, byPool[model.PoolKeyAllPools].LiquidityPoints)
		require.Equal(t, 200.0, byPool[poolAddress].SwapPoints)

		referrerRows, err := testDB.GetUserPoints(ctx, "0xerin", date)
		require.NoError(t, err)
		require.Len(t, referrerRows, 1)
		require.Equal(t, 120.0, referrerRows[0].ReferralPoints)
	})
}
