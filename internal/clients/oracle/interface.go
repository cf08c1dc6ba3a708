package oracle

import "context"

type OracleInterface interface {
	// GetBaseAssetPriceUSD returns the USD price of the base asset.
	GetBaseAssetPriceUSD(ctx context.Context) (float64, error)
	// GetAllPools returns the current reserves of every pool known to the
	// upstream indexer.
	GetAllPools(ctx context.Context) ([]Pool, error)
}
