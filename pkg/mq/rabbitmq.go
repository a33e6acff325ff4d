package mq

import (
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Config struct {
	URL string `mapstructure:"url"`
}

type RabbitMQ struct {
	conn   *amqp.Connection
	addr   string
	logger *zap.Logger
}

// NewConnection dials the broker. The URL usually embeds credentials, so
// logs only ever carry the host and vhost.
func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	addr := redactURL(cfg.URL)

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ",
			zap.Error(err),
			zap.String("addr", addr),
		)
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s: %w", addr, err)
	}

	logger.Info("Connected to RabbitMQ", zap.String("addr", addr))

	return &RabbitMQ{conn: conn, addr: addr, logger: logger}, nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<invalid amqp url>"
	}

	return u.Host + u.Path
}

func (r *RabbitMQ) OpenChannel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, fmt.Errorf("connection to %s is closed", r.addr)
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

// DeclareTopology declares the given queues as durable. Safe to call from
// every process sharing a queue; declaration is idempotent on the broker.
func (r *RabbitMQ) DeclareTopology(queues ...string) error {
	ch, err := r.OpenChannel()
	if err != nil {
		return fmt.Errorf("failed to open channel for topology: %w", err)
	}
	defer ch.Close()

	for _, queue := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}

		r.logger.Debug("Queue declared", zap.String("queue", queue))
	}

	r.logger.Info("Topology declared", zap.Strings("queues", queues))

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for publisher: %w", err)
	}

	return NewRabbitPublisher(ch), nil
}

func (r *RabbitMQ) CreateConsumer() (Consumer, error) {
	ch, err := r.OpenChannel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for consumer: %w", err)
	}

	return NewRabbitConsumer(ch), nil
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil || r.conn.IsClosed() {
		return nil
	}

	r.logger.Info("Closing RabbitMQ connection", zap.String("addr", r.addr))

	return r.conn.Close()
}
