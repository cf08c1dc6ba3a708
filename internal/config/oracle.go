package config

import (
	"errors"
	"time"
)

type OracleConfig struct {
	// PriceEndpoint serves the USD price of the base asset.
	PriceEndpoint string `mapstructure:"price-endpoint"`
	// PoolsEndpoint is the GraphQL URL serving the allPools query.
	PoolsEndpoint string        `mapstructure:"pools-endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
	// BaseAssetAddress is the token every other token is priced against.
	BaseAssetAddress string `mapstructure:"base-asset-address"`
	// Reserve floors below which a pool is not trusted for price derivation.
	MinBaseReserve  float64 `mapstructure:"min-base-reserve"`
	MinTokenReserve float64 `mapstructure:"min-token-reserve"`
	// MinUSDPrice discards derived prices below this floor.
	MinUSDPrice float64 `mapstructure:"min-usd-price"`
}

const (
	defaultMinBaseReserve  = 100
	defaultMinTokenReserve = 100
	defaultMinUSDPrice     = 0.0000001
)

func (cfg *OracleConfig) Validate() error {
	if cfg.PriceEndpoint == "" {
		return errors.New("oracle price endpoint is required")
	}
	if cfg.PoolsEndpoint == "" {
		return errors.New("oracle pools endpoint is required")
	}
	if cfg.Timeout <= 0 {
		return errors.New("oracle timeout must be positive")
	}
	if cfg.BaseAssetAddress == "" {
		return errors.New("oracle base asset address is required")
	}
	if cfg.MinBaseReserve <= 0 {
		cfg.MinBaseReserve = defaultMinBaseReserve
	}
	if cfg.MinTokenReserve <= 0 {
		cfg.MinTokenReserve = defaultMinTokenReserve
	}
	if cfg.MinUSDPrice <= 0 {
		cfg.MinUSDPrice = defaultMinUSDPrice
	}

	return nil
}
