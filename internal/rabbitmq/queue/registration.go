// Package queue declares the RabbitMQ topology for registration events and
// wraps the publish/consume primitives used by the HTTP API and the
// ingestion consumer.
package queue

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/retry"

	"github.com/TimeBox-aste/obo-space-web/internal/config"
	"github.com/TimeBox-aste/obo-space-web/internal/model"
)

// RegistrationQueue owns the declared registration topology: a direct
// exchange, a durable main queue dead-lettering into a DLQ for poison
// messages, and a publisher bound to the exchange.
type RegistrationQueue struct {
	Publisher *rabbitmq.Publisher

	ch         *rabbitmq.Channel
	queue      string
	routingKey string
}

// NewRegistrationQueue declares the exchange, the DLQ and the main queue on
// the given channel and binds them together.
//
// Declaration is idempotent, so both the publishing and the consuming process
// call it on startup.
func NewRegistrationQueue(ch *rabbitmq.Channel, cfg *config.Config) (*RegistrationQueue, error) {
	exchange := rabbitmq.NewExchange(cfg.RabbitMQ.Exchange, "direct")
	if err := exchange.BindToChannel(ch); err != nil {
		return nil, fmt.Errorf("failed to bind to exchange: %w", err)
	}

	qm := rabbitmq.NewQueueManager(ch)

	_, err := qm.DeclareQueue(cfg.RabbitMQ.DLQ, rabbitmq.QueueConfig{Durable: true})
	if err != nil {
		return nil, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	// Permanently rejected (poison) messages are dead-lettered here instead
	// of being dropped.
	mainArgs := map[string]interface{}{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitMQ.DLQ,
	}

	mainQ, err := qm.DeclareQueue(cfg.RabbitMQ.Queue, rabbitmq.QueueConfig{
		Durable: true,
		Args:    mainArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	if err := ch.QueueBind(mainQ.Name, cfg.RabbitMQ.RoutingKey, exchange.Name(), false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind the exchange to the main queue: %w", err)
	}

	pub := rabbitmq.NewPublisher(ch, exchange.Name())

	return &RegistrationQueue{
		Publisher:  pub,
		ch:         ch,
		queue:      mainQ.Name,
		routingKey: cfg.RabbitMQ.RoutingKey,
	}, nil
}

// Publish marshals a registration event and publishes it with the given
// retry strategy.
func (q *RegistrationQueue) Publish(msg model.Registration, strategy retry.Strategy) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.Publisher.PublishWithRetry(body, q.routingKey, "application/json", strategy)
}

// Deliveries starts consuming from the main queue with manual acknowledgment
// and a prefetch of one, so a single message is in flight per connection.
//
// The caller acks after its transaction commits, nacks with requeue on
// transient failures and nacks without requeue on poison messages.
func (q *RegistrationQueue) Deliveries() (<-chan amqp.Delivery, error) {
	if err := q.ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := q.ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	return deliveries, nil
}
