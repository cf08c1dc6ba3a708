package config

import (
	"errors"
	"strings"
	"time"
)

type EventSourceConfig struct {
	// Endpoint is the GraphQL URL of the pool events indexer.
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
	// PageSize bounds how many events a single ingestion cycle pulls.
	PageSize int `mapstructure:"page-size"`
	// EventDelay is the pause between consecutive events, to respect
	// upstream rate limits.
	EventDelay time.Duration `mapstructure:"event-delay"`
	// IneligibleTokens lists token addresses whose pools never earn points.
	IneligibleTokens []string `mapstructure:"ineligible-tokens"`
}

const (
	defaultEventPageSize = 50
	defaultEventDelay    = 250 * time.Millisecond
)

func (cfg *EventSourceConfig) Validate() error {
	if cfg.Endpoint == "" {
		return errors.New("event source endpoint is required")
	}
	if cfg.Timeout <= 0 {
		return errors.New("event source timeout must be positive")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultEventPageSize
	}
	if cfg.EventDelay <= 0 {
		cfg.EventDelay = defaultEventDelay
	}

	return nil
}

// IsIneligibleToken reports whether the token address is on the static
// ineligibility list. Comparison is case-insensitive.
func (cfg *EventSourceConfig) IsIneligibleToken(address string) bool {
	for _, t := range cfg.IneligibleTokens {
		if strings.EqualFold(t, address) {
			return true
		}
	}
	return false
}
