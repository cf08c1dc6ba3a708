package prices

import (
	"strings"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/oracle"
)

// Thresholds guard price derivation against thin or dusty pools.
type Thresholds struct {
	// MinBaseReserve is the minimum base asset reserve a pool must hold to
	// be trusted for pricing.
	MinBaseReserve float64
	// MinTokenReserve is the minimum counterparty token reserve.
	MinTokenReserve float64
	// MinUSDPrice discards derived prices below this floor.
	MinUSDPrice float64
}

// Snapshot is an immutable set of token USD prices, keyed by lowercase token
// address. It is rebuilt wholesale each ingestion cycle; stale entries never
// survive a rebuild.
type Snapshot struct {
	prices map[string]float64
}

// Price returns the USD price of the token, or false when the token is not
// priced in this snapshot.
func (s *Snapshot) Price(tokenAddress string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	price, ok := s.prices[strings.ToLower(tokenAddress)]
	return price, ok
}

// Len returns the number of tokens priced in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.prices)
}

// BuildSnapshot derives token prices from pool reserve ratios against the
// base asset. For each token, only the single pool holding the most base
// asset is trusted; pools below the reserve floors are ignored entirely.
func BuildSnapshot(baseAsset string, basePriceUSD float64, pools []oracle.Pool, th Thresholds) *Snapshot {
	baseAsset = strings.ToLower(baseAsset)

	snapshot := &Snapshot{
		prices: map[string]float64{
			baseAsset: basePriceUSD,
		},
	}

	type candidate struct {
		baseReserve  float64
		tokenReserve float64
	}
	best := make(map[string]candidate)

	for _, pool := range pools {
		var token string
		var c candidate
		switch {
		case strings.ToLower(pool.Token1) == baseAsset:
			token = strings.ToLower(pool.Token2)
			c = candidate{baseReserve: pool.Reserved1, tokenReserve: pool.Reserved2}
		case strings.ToLower(pool.Token2) == baseAsset:
			token = strings.ToLower(pool.Token1)
			c = candidate{baseReserve: pool.Reserved2, tokenReserve: pool.Reserved1}
		default:
			continue
		}

		if c.baseReserve <= th.MinBaseReserve || c.tokenReserve <= th.MinTokenReserve {
			continue
		}
		if existing, ok := best[token]; ok && existing.baseReserve >= c.baseReserve {
			continue
		}
		best[token] = c
	}

	for token, c := range best {
		price := (c.baseReserve / c.tokenReserve) * basePriceUSD
		if price > th.MinUSDPrice {
			snapshot.prices[token] = price
		}
	}

	return snapshot
}
