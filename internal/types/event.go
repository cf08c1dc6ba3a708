package types

// PoolEventType is the kind of pool lifecycle event emitted by the event source.
type PoolEventType string

const (
	PoolEventSwap PoolEventType = "Swap"
	PoolEventMint PoolEventType = "Mint"
	PoolEventBurn PoolEventType = "Burn"
)

func (e PoolEventType) String() string {
	return string(e)
}

// TransactionType classifies a liquidity ledger entry.
type TransactionType string

const (
	TransactionMint TransactionType = "mint"
	TransactionBurn TransactionType = "burn"
)

func (t TransactionType) String() string {
	return string(t)
}
