package eventsource

import (
	"fmt"
	"strconv"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/types"
)

// tokenDecimalFactor converts raw on-chain amounts to human token units.
const tokenDecimalFactor = 1e18

type TokenRef struct {
	ID string `json:"id"`
}

type PoolRef struct {
	ID     string   `json:"id"`
	Token1 TokenRef `json:"token1"`
	Token2 TokenRef `json:"token2"`
}

// PoolEvent is a single Swap/Mint/Burn event as served by the upstream
// GraphQL indexer. Amounts are raw integer strings scaled by 1e18.
type PoolEvent struct {
	ID            string              `json:"id"`
	BlockHeight   uint64              `json:"blockHeight"`
	ToAddress     string              `json:"toAddress"`
	SenderAddress string              `json:"senderAddress"`
	SignerAddress string              `json:"signerAddress"`
	Type          types.PoolEventType `json:"type"`
	Amount1       string              `json:"amount1"`
	Amount2       string              `json:"amount2"`
	Pool          PoolRef             `json:"pool"`
}

// PoolAddress returns the canonical pool identifier of the event, falling
// back to a token-pair key when the upstream omits the pool id.
func (e *PoolEvent) PoolAddress() string {
	if e.Pool.ID != "" {
		return e.Pool.ID
	}
	if e.Pool.Token1.ID != "" && e.Pool.Token2.ID != "" {
		return e.Pool.Token1.ID + "_" + e.Pool.Token2.ID
	}
	return "unknown"
}

// Amounts returns the event's token amounts normalized to human units.
func (e *PoolEvent) Amounts() (amount1, amount2 float64, err error) {
	amount1, err = normalizeAmount(e.Amount1)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount1 in event %s: %w", e.ID, err)
	}
	amount2, err = normalizeAmount(e.Amount2)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount2 in event %s: %w", e.ID, err)
	}
	return amount1, amount2, nil
}

func normalizeAmount(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return v / tokenDecimalFactor, nil
}
