package db

import (
	"context"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	// Event dedup.
	HasProcessedEvent(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID string, blockHeight uint64) error
	GetLastProcessedBlock(ctx context.Context) (uint64, error)
	DeleteProcessedEventsBelow(ctx context.Context, height uint64) (int64, error)

	// Pool registry.
	GetPoolConfig(ctx context.Context, poolAddress string) (*model.PoolConfig, error)
	SavePoolConfig(ctx context.Context, cfg *model.PoolConfig) error

	// Transaction ledgers.
	SaveLiquidityTransaction(ctx context.Context, tx *model.LiquidityTransaction) error
	GetLiquidityTransactions(ctx context.Context, userAddress string, date time.Time) ([]model.LiquidityTransaction, error)
	GetUsersWithLiquidityTransactions(ctx context.Context, date time.Time) ([]string, error)
	SaveSwapTransaction(ctx context.Context, tx *model.SwapTransaction) error
	AggregateSwapVolumes(ctx context.Context, date time.Time) ([]SwapVolumeResult, error)

	// Daily balances.
	UpsertDailyBalance(ctx context.Context, balance *model.DailyBalance) error
	GetDailyBalance(ctx context.Context, userAddress, poolAddress string, date time.Time) (*model.DailyBalance, error)
	GetDailyBalances(ctx context.Context, userAddress string, date time.Time) ([]model.DailyBalance, error)
	GetUsersWithBalancesAbove(ctx context.Context, date time.Time, threshold float64) ([]string, error)
	DeleteDailyBalancesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Points.
	UpsertLiquidityPoints(ctx context.Context, userAddress, poolAddress string, date time.Time, points float64, poolType types.PoolType) error
	AddSwapPoints(ctx context.Context, userAddress, poolAddress string, date time.Time, points float64) error
	AddReferralPoints(ctx context.Context, userAddress string, date time.Time, points float64) error
	UpsertDailySummary(ctx context.Context, userAddress string, date time.Time, liquidityPoints float64) error
	ResetDailyAdditivePoints(ctx context.Context, date time.Time) (int64, error)
	GetUserPoints(ctx context.Context, userAddress string, date time.Time) ([]model.UserPoints, error)

	// Referrals and settings.
	GetReferralByReferred(ctx context.Context, referredAddress string) (*model.Referral, error)
	SaveReferral(ctx context.Context, referral *model.Referral) error
	GetGlobalSettings(ctx context.Context) (*model.GlobalSettings, error)
}
