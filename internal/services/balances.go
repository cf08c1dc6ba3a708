package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/db/model"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
	"github.com/rs/zerolog/log"
)

// replayResult is the outcome of replaying one pool's day of transactions.
type replayResult struct {
	// Lowest is the minimum running balance observed during the day.
	Lowest float64
	// Final is the balance at the end of the day.
	Final float64
}

// replayTransactions replays a pool's mint/burn ledger for one day against
// the previous day's ending balance. Mints add, burns subtract; the minimum
// running balance after each step is tracked. With no transactions the lowest
// is the carried balance itself. Both outcomes are clamped to zero.
func replayTransactions(previousEnding float64, txs []model.LiquidityTransaction) replayResult {
	current := previousEnding
	lowest := previousEnding
	seeded := len(txs) == 0

	for _, tx := range txs {
		switch tx.Type {
		case types.TransactionMint:
			current += tx.ValueUSD
		case types.TransactionBurn:
			current -= tx.ValueUSD
		}
		if !seeded || current < lowest {
			lowest = current
			seeded = true
		}
	}

	if lowest < 0 {
		lowest = 0
	}
	if current < 0 {
		current = 0
	}
	return replayResult{Lowest: lowest, Final: current}
}

// streakStart decides the streak anchor for a new daily record: inherited
// from the prior day while its ending balance stayed above the threshold,
// reset to the record's own date otherwise.
func streakStart(prev *model.DailyBalance, threshold float64, date time.Time) time.Time {
	if prev != nil && prev.FinalBalance > threshold && !prev.StreakStartDate.IsZero() {
		return prev.StreakStartDate
	}
	return date
}

// ComputeAndStoreDailyBalances replays the user's liquidity ledger for the
// given day and overwrites the day's balance records. Pools whose lowest
// balance stays below the minimum threshold leave no record for the day; the
// balance is treated as absent, not zero, by the points pass.
func (s *Service) ComputeAndStoreDailyBalances(ctx context.Context, userAddress string, date time.Time) error {
	log := log.Ctx(ctx)
	previousDate := date.AddDate(0, 0, -1)

	txs, err := s.db.GetLiquidityTransactions(ctx, userAddress, date)
	if err != nil {
		return fmt.Errorf("failed to fetch liquidity transactions: %w", err)
	}

	previousBalances, err := s.db.GetDailyBalances(ctx, userAddress, previousDate)
	if err != nil {
		return fmt.Errorf("failed to fetch previous daily balances: %w", err)
	}
	previousByPool := make(map[string]*model.DailyBalance, len(previousBalances))
	for i := range previousBalances {
		previousByPool[previousBalances[i].PoolAddress] = &previousBalances[i]
	}

	// union of pools with activity today or a carried balance from yesterday
	txsByPool := make(map[string][]model.LiquidityTransaction)
	relevantPools := make([]string, 0, len(previousBalances))
	for _, tx := range txs {
		if _, seen := txsByPool[tx.PoolAddress]; !seen {
			relevantPools = append(relevantPools, tx.PoolAddress)
		}
		txsByPool[tx.PoolAddress] = append(txsByPool[tx.PoolAddress], tx)
	}
	for _, prev := range previousBalances {
		if _, seen := txsByPool[prev.PoolAddress]; !seen {
			relevantPools = append(relevantPools, prev.PoolAddress)
		}
	}

	threshold := s.cfg.Rewards.MinLiquidityThreshold
	for _, poolAddress := range relevantPools {
		prev := previousByPool[poolAddress]
		var previousEnding float64
		if prev != nil {
			previousEnding = prev.FinalBalance
		}

		result := replayTransactions(previousEnding, txsByPool[poolAddress])

		if result.Lowest < threshold {
			log.Debug().
				Str("user_address", userAddress).
				Str("pool_address", poolAddress).
				Float64("lowest_usd", result.Lowest).
				Msg("Daily balance below threshold, no record written")
			continue
		}

		balance := &model.DailyBalance{
			UserAddress:     userAddress,
			PoolAddress:     poolAddress,
			Date:            date,
			LowestUSD:       result.Lowest,
			FinalBalance:    result.Final,
			StreakStartDate: streakStart(prev, threshold, date),
		}
		if err := s.db.UpsertDailyBalance(ctx, balance); err != nil {
			return fmt.Errorf("failed to upsert daily balance for pool %s: %w", poolAddress, err)
		}

		log.Debug().
			Str("user_address", userAddress).
			Str("pool_address", poolAddress).
			Float64("lowest_usd", result.Lowest).
			Float64("final_balance", result.Final).
			Time("streak_start_date", balance.StreakStartDate).
			Msg("Saved daily balance")
	}

	return nil
}
