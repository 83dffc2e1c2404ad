// Package consumer ingests registration events from RabbitMQ: each message
// is validated and materialized into durable user, shared copy and
// notification rows, and acknowledged only after the transaction commits.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/zlog"

	"github.com/TimeBox-aste/obo-space-web/internal/config"
	"github.com/TimeBox-aste/obo-space-web/internal/model"
	"github.com/TimeBox-aste/obo-space-web/internal/rabbitmq/queue"
)

//go:generate mockgen -source=consumer.go -destination=../mocks/consumer/mock.go -package=mocks

type ingestor interface {
	Ingest(ctx context.Context, reg model.Registration) error
}

// Consumer owns its RabbitMQ connection so it can re-dial and resume
// consuming after connection-level failures, backing off between attempts.
// It runs until the context is cancelled.
type Consumer struct {
	cfg     *config.Config
	service ingestor
}

func New(cfg *config.Config, service ingestor) *Consumer {
	return &Consumer{cfg: cfg, service: service}
}

// Run consumes registration messages until the context is cancelled,
// transparently reconnecting after broken connections.
func (c *Consumer) Run(ctx context.Context) {
	for {
		if err := c.consume(ctx); err != nil {
			zlog.Logger.Error().Err(err).
				Dur("reconnect_pause", c.cfg.Consumer.ReconnectPause).
				Msg("consumer connection lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("registration consumer stopped")
			return
		case <-time.After(c.cfg.Consumer.ReconnectPause):
		}
	}
}

// consume dials the broker, declares the topology and processes deliveries
// one at a time until the connection breaks or the context is cancelled.
func (c *Consumer) consume(ctx context.Context) error {
	conn, err := rabbitmq.Connect(c.cfg.RabbitMQ.URL(), c.cfg.RabbitMQ.Retries, c.cfg.RabbitMQ.Pause)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := queue.NewRegistrationQueue(ch, c.cfg)
	if err != nil {
		return fmt.Errorf("failed to declare registration queue: %w", err)
	}

	deliveries, err := q.Deliveries()
	if err != nil {
		return err
	}

	zlog.Logger.Info().Str("queue", c.cfg.RabbitMQ.Queue).Msg("started consuming registration messages")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			c.handle(ctx, d)
		}
	}
}

// handle processes one delivery. Malformed payloads are rejected permanently
// (dead-lettered), transient processing failures are rejected with requeue,
// and the message is acknowledged only after the ingest transaction commits.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var reg model.Registration
	if err := json.Unmarshal(d.Body, &reg); err != nil {
		zlog.Logger.Error().Err(err).Bytes("body", d.Body).Msg("invalid registration payload, rejecting")
		c.reject(d, false)
		return
	}

	if reg.Email == "" {
		zlog.Logger.Error().Bytes("body", d.Body).Msg("registration without email, rejecting")
		c.reject(d, false)
		return
	}

	zlog.Logger.Info().Str("email", reg.Email).Msg("received registration message")

	if err := c.service.Ingest(ctx, reg); err != nil {
		zlog.Logger.Error().Err(err).Str("email", reg.Email).Msg("failed to ingest registration, requeueing")
		c.reject(d, true)
		return
	}

	if err := d.Ack(false); err != nil {
		zlog.Logger.Error().Err(err).Str("email", reg.Email).Msg("failed to ack message")
	}
}

func (c *Consumer) reject(d amqp.Delivery, requeue bool) {
	if err := d.Nack(false, requeue); err != nil {
		zlog.Logger.Error().Err(err).Bool("requeue", requeue).Msg("failed to nack message")
	}
}
