package db

import (
	"context"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) HasProcessedEvent(ctx context.Context, eventID string) (result bool, err error) {
	//nolint:errcheck
	d.run("HasProcessedEvent", func() error {
		result, err = d.db.HasProcessedEvent(ctx, eventID)
		return err
	})
	return
}

func (d *DbWithMetrics) MarkEventProcessed(ctx context.Context, eventID string, blockHeight uint64) error {
	return d.run("MarkEventProcessed", func() error {
		return d.db.MarkEventProcessed(ctx, eventID, blockHeight)
	})
}

func (d *DbWithMetrics) GetLastProcessedBlock(ctx context.Context) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetLastProcessedBlock", func() error {
		result, err = d.db.GetLastProcessedBlock(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) DeleteProcessedEventsBelow(ctx context.Context, height uint64) (result int64, err error) {
	//nolint:errcheck
	d.run("DeleteProcessedEventsBelow", func() error {
		result, err = d.db.DeleteProcessedEventsBelow(ctx, height)
		return err
	})
	return
}

func (d *DbWithMetrics) GetPoolConfig(ctx context.Context, poolAddress string) (result *model.PoolConfig, err error) {
	//nolint:errcheck
	d.run("GetPoolConfig", func() error {
		result, err = d.db.GetPoolConfig(ctx, poolAddress)
		return err
	})
	return
}

func (d *DbWithMetrics) SavePoolConfig(ctx context.Context, cfg *model.PoolConfig) error {
	return d.run("SavePoolConfig", func() error {
		return d.db.SavePoolConfig(ctx, cfg)
	})
}

func (d *DbWithMetrics) SaveLiquidityTransaction(ctx context.Context, tx *model.LiquidityTransaction) error {
	return d.run("SaveLiquidityTransaction", func() error {
		return d.db.SaveLiquidityTransaction(ctx, tx)
	})
}

func (d *DbWithMetrics) GetLiquidityTransactions(ctx context.Context, userAddress string, date time.Time) (result []model.LiquidityTransaction, err error) {
	//nolint:errcheck
	d.run("GetLiquidityTransactions", func() error {
		result, err = d.db.GetLiquidityTransactions(ctx, userAddress, date)
		return err
	})
	return
}

func (d *DbWithMetrics) GetUsersWithLiquidityTransactions(ctx context.Context, date time.Time) (result []string, err error) {
	//nolint:errcheck
	d.run("GetUsersWithLiquidityTransactions", func() error {
		result, err = d.db.GetUsersWithLiquidityTransactions(ctx, date)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveSwapTransaction(ctx context.Context, tx *model.SwapTransaction) error {
	return d.run("SaveSwapTransaction", func() error {
		return d.db.SaveSwapTransaction(ctx, tx)
	})
}

func (d *DbWithMetrics) AggregateSwapVolumes(ctx context.Context, date time.Time) (result []SwapVolumeResult, err error) {
	//nolint:errcheck
	d.run("AggregateSwapVolumes", func() error {
		result, err = d.db.AggregateSwapVolumes(ctx, date)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertDailyBalance(ctx context.Context, balance *model.DailyBalance) error {
	return d.run("UpsertDailyBalance", func() error {
		return d.db.UpsertDailyBalance(ctx, balance)
	})
}

func (d *DbWithMetrics) GetDailyBalance(ctx context.Context, userAddress, poolAddress string, date time.Time) (result *model.DailyBalance, err error) {
	//nolint:errcheck
	d.run("GetDailyBalance", func() error {
		result, err = d.db.GetDailyBalance(ctx, userAddress, poolAddress, date)
		return err
	})
	return
}

func (d *DbWithMetrics) GetDailyBalances(ctx context.Context, userAddress string, date time.Time) (result []model.DailyBalance, err error) {
	//nolint:errcheck
	d.run("GetDailyBalances", func() error {
		result, err = d.db.GetDailyBalances(ctx, userAddress, date)
		return err
	})
	return
}

func (d *DbWithMetrics) GetUsersWithBalancesAbove(ctx context.Context, date time.Time, threshold float64) (result []string, err error) {
	//nolint:errcheck
	d.run("GetUsersWithBalancesAbove", func() error {
		result, err = d.db.GetUsersWithBalancesAbove(ctx, date, threshold)
		return err
	})
	return
}

func (d *DbWithMetrics) DeleteDailyBalancesBefore(ctx context.Context, cutoff time.Time) (result int64, err error) {
	//nolint:errcheck
	d.run("DeleteDailyBalancesBefore", func() error {
		result, err = d.db.DeleteDailyBalancesBefore(ctx, cutoff)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertLiquidityPoints(ctx context.Context, userAddress, poolAddress string, date time.Time, points float64, poolType types.PoolType) error {
	return d.run("UpsertLiquidityPoints", func() error {
		return d.db.UpsertLiquidityPoints(ctx, userAddress, poolAddress, date, points, poolType)
	})
}

func (d *DbWithMetrics) AddSwapPoints(ctx context.Context, userAddress, poolAddress string, date time.Time, points float64) error {
	return d.run("AddSwapPoints", func() error {
		return d.db.AddSwapPoints(ctx, userAddress, poolAddress, date, points)
	})
}

func (d *DbWithMetrics) AddReferralPoints(ctx context.Context, userAddress string, date time.Time, points float64) error {
	return d.run("AddReferralPoints", func() error {
		return d.db.AddReferralPoints(ctx, userAddress, date, points)
	})
}

func (d *DbWithMetrics) UpsertDailySummary(ctx context.Context, userAddress string, date time.Time, liquidityPoints float64) error {
	return d.run("UpsertDailySummary", func() error {
		return d.db.UpsertDailySummary(ctx, userAddress, date, liquidityPoints)
	})
}

func (d *DbWithMetrics) ResetDailyAdditivePoints(ctx context.Context, date time.Time) (result int64, err error) {
	//nolint:errcheck
	d.run("ResetDailyAdditivePoints", func() error {
		result, err = d.db.ResetDailyAdditivePoints(ctx, date)
		return err
	})
	return
}

func (d *DbWithMetrics) GetUserPoints(ctx context.Context, userAddress string, date time.Time) (result []model.UserPoints, err error) {
	//nolint:errcheck
	d.run("GetUserPoints", func() error {
		result, err = d.db.GetUserPoints(ctx, userAddress, date)
		return err
	})
	return
}

func (d *DbWithMetrics) GetReferralByReferred(ctx context.Context, referredAddress string) (result *model.Referral, err error) {
	//nolint:errcheck
	d.run("GetReferralByReferred", func() error {
		result, err = d.db.GetReferralByReferred(ctx, referredAddress)
		return err
	})
	return
}

func (d *DbWithMetrics) SaveReferral(ctx context.Context, referral *model.Referral) error {
	return d.run("SaveReferral", func() error {
		return d.db.SaveReferral(ctx, referral)
	})
}

func (d *DbWithMetrics) GetGlobalSettings(ctx context.Context) (result *model.GlobalSettings, err error) {
	//nolint:errcheck
	d.run("GetGlobalSettings", func() error {
		result, err = d.db.GetGlobalSettings(ctx)
		return err
	})
	return
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
