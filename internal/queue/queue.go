package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/config"
	"github.com/dexlabs-io/dex-rewards-indexer/internal/observability/metrics"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// PointsAwardedEvent notifies downstream consumers that a user's points for a
// day have been finalized.
type PointsAwardedEvent struct {
	UserAddress     string    `json:"user_address"`
	Date            time.Time `json:"date"`
	LiquidityPoints float64   `json:"liquidity_points"`
	SwapPoints      float64   `json:"swap_points"`
	ReferralPoints  float64   `json:"referral_points"`
}

// QueueManager publishes points notifications to RabbitMQ. A nil manager is
// valid and drops all messages, so the queue stays optional.
type QueueManager struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	if cfg == nil {
		return nil, nil
	}

	url := fmt.Sprintf("amqp://%s:%s@%s", cfg.User, cfg.Password, cfg.Url)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	if _, err := channel.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	return &QueueManager{
		conn:      conn,
		channel:   channel,
		queueName: cfg.QueueName,
	}, nil
}

func (qm *QueueManager) PublishPointsAwarded(ctx context.Context, event *PointsAwardedEvent) error {
	if qm == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal points event: %w", err)
	}

	err = qm.channel.PublishWithContext(ctx,
		"", // default exchange
		qm.queueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish points event: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	if qm == nil {
		return
	}

	log.Info().Msg("Shutting down queue manager")
	if err := qm.channel.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close queue channel")
	}
	if err := qm.conn.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close queue connection")
	}
}
