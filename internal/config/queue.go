package config

import "errors"

type QueueConfig struct {
	Url      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// QueueName is the queue points notifications are published to.
	QueueName string `mapstructure:"queue-name"`
}

const defaultPointsQueueName = "rewards.points.awarded"

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("queue url is required")
	}
	if cfg.QueueName == "" {
		cfg.QueueName = defaultPointsQueueName
	}

	return nil
}
