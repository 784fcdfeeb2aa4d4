package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeKind is the AMQP exchange type declared by publisher and consumer.
const ExchangeKind = "topic"

// amqpChannel is the subset of *amqp.Channel used for publishing.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// rabbitMQPublisher implements EventPublisher on a RabbitMQ exchange.
type rabbitMQPublisher struct {
	conn       *amqp.Connection
	mu         sync.Mutex
	channel    amqpChannel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

// NewRabbitMQPublisher dials the broker and declares the durable exchange.
func NewRabbitMQPublisher(cfg *config.RabbitMQConfig, logger *slog.Logger) (service.EventPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "failed to open RabbitMQ channel")
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		conn.Close()

		return nil, errors.Wrapf(err, "failed to declare exchange %s", cfg.Exchange)
	}

	logger.Info("RabbitMQ publisher initialized",
		slog.String("exchange", cfg.Exchange),
		slog.String("routing_key", cfg.RoutingKey),
	)

	return &rabbitMQPublisher{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// PublishNotificationEvent publishes a persistent JSON message.
func (p *rabbitMQPublisher) PublishNotificationEvent(ctx context.Context, event *service.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	headers := amqp.Table{}
	for k, v := range eventAttributes(event) {
		headers[k] = v
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: event.RequestID,
		Timestamp:     time.Now(),
		Headers:       headers,
		Body:          body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return errors.Wrap(err, "failed to publish to RabbitMQ")
	}

	p.logger.InfoContext(ctx, "[RabbitMQ] Event published",
		slog.String("message_id", msg.MessageId),
		slog.String("audience", event.Audience),
	)

	return nil
}

// Close closes the channel and the connection.
func (p *rabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	for _, err := range errs {
		if err != nil && !errors.Is(err, amqp.ErrClosed) {
			return errors.WithStack(err)
		}
	}

	return nil
}
