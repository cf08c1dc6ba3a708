package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Db          DbConfig          `mapstructure:"db"`
	EventSource EventSourceConfig `mapstructure:"event-source"`
	Oracle      OracleConfig      `mapstructure:"oracle"`
	Rewards     RewardsConfig     `mapstructure:"rewards"`
	Poller      PollerConfig      `mapstructure:"poller"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Queue       *QueueConfig      `mapstructure:"queue"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return err
	}
	if err := cfg.EventSource.Validate(); err != nil {
		return err
	}
	if err := cfg.Oracle.Validate(); err != nil {
		return err
	}
	if err := cfg.Rewards.Validate(); err != nil {
		return err
	}
	if err := cfg.Poller.Validate(); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	// queue is optional; when absent, points notifications are disabled
	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// New returns a fully parsed Config object from the given config file path.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
