package types

// PoolType classifies a liquidity pool by the volatility profile of its two
// constituent tokens. It drives the base points-per-dollar rate.
type PoolType string

const (
	PoolTypeStableStable     PoolType = "stable_stable"
	PoolTypeVolatileVolatile PoolType = "volatile_volatile"
	PoolTypeVolatileStable   PoolType = "volatile_stable"
)

func (p PoolType) String() string {
	return string(p)
}

// ClassifyPool derives the pool type from the stablecoin-ness of its tokens.
// The classification is done once, on first observed event for the pool, and
// is stable thereafter unless explicitly reclassified.
func ClassifyPool(token0IsStable, token1IsStable bool) PoolType {
	switch {
	case token0IsStable && token1IsStable:
		return PoolTypeStableStable
	case !token0IsStable && !token1IsStable:
		return PoolTypeVolatileVolatile
	default:
		return PoolTypeVolatileStable
	}
}
