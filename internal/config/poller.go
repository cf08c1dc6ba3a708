package config

import (
	"errors"
	"time"
)

const defaultCleanupInterval = 6 * time.Hour

type PollerConfig struct {
	// IngestionInterval drives the event ingestion cycle.
	IngestionInterval time.Duration `mapstructure:"ingestion-interval"`
	// DailyInterval drives the daily balance/points cycle. It may fire more
	// often than once a day; runs for an already-processed day are idempotent.
	DailyInterval time.Duration `mapstructure:"daily-interval"`
	// CleanupInterval drives the retention purge of old balance history.
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	// RetentionDays is how long daily balance records are kept.
	RetentionDays int `mapstructure:"retention-days"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.IngestionInterval <= 0 {
		return errors.New("ingestion-interval must be positive")
	}
	if cfg.DailyInterval <= 0 {
		return errors.New("daily-interval must be positive")
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}

	return nil
}
