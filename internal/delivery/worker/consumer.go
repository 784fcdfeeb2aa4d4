package worker

import (
	"context"
	"log/slog"
	"sync"

	"rentalhub/config"
	"rentalhub/internal/delivery"
	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/delivery/worker/handler"
	"rentalhub/internal/infra/pubsub"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

const defaultPrefetch = 10

// ConsumerParams holds dependencies for the RabbitMQ consumer.
type ConsumerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	Processor *handler.EventProcessor
}

type rabbitMQConsumer struct {
	cfg       *config.RabbitMQConfig
	logger    *slog.Logger
	processor *handler.EventProcessor

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsumer creates the delivery that drains the notification queue on RabbitMQ.
func NewConsumer(params ConsumerParams) (delivery.Delivery, error) {
	if params.Cfg.PubSub == nil || params.Cfg.PubSub.RabbitMQ == nil {
		return nil, errors.New("rabbitmq configuration is required for the consumer")
	}

	consumer := &rabbitMQConsumer{
		cfg:       params.Cfg.PubSub.RabbitMQ,
		logger:    params.Logger,
		processor: params.Processor,
		done:      make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: consumer.stop,
	})

	return consumer, nil
}

// Serve blocks until the context is cancelled, the consumer is stopped or the broker closes the channel.
func (c *rabbitMQConsumer) Serve(ctx context.Context) error {
	defer close(c.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return errors.Wrap(err, "failed to connect to RabbitMQ")
	}
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "failed to open RabbitMQ channel")
	}
	defer ch.Close()

	deliveries, err := c.subscribe(ch)
	if err != nil {
		return err
	}
	c.logger.Info("Starting RabbitMQ consumer",
		slog.String("queue", c.cfg.Queue),
		slog.String("exchange", c.cfg.Exchange))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}

				return errors.New("rabbitmq delivery channel closed")
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *rabbitMQConsumer) subscribe(ch *amqp.Channel) (<-chan amqp.Delivery, error) {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, pubsub.ExchangeKind, true, false, false, false, nil); err != nil {
		return nil, errors.Wrapf(err, "failed to declare exchange %s", c.cfg.Exchange)
	}
	queue, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to declare queue %s", c.cfg.Queue)
	}
	if err := ch.QueueBind(queue.Name, c.cfg.RoutingKey, c.cfg.Exchange, false, nil); err != nil {
		return nil, errors.Wrapf(err, "failed to bind queue %s", queue.Name)
	}

	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, errors.Wrap(err, "failed to set prefetch")
	}

	deliveries, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to consume queue %s", queue.Name)
	}

	return deliveries, nil
}

// handle acks processed and dropped events and requeues the ones that failed.
func (c *rabbitMQConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	requestID := msg.CorrelationId
	if requestID == "" {
		if id, ok := msg.Headers[deliverycontext.AttrRequestID].(string); ok {
			requestID = id
		}
	}

	if err := c.processor.Process(ctx, msg.Body, requestID); err != nil {
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("Failed to nack message", slog.Any("error", nackErr))
		}

		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("Failed to ack message", slog.Any("error", ackErr))
	}
}

func (c *rabbitMQConsumer) stop(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}

	c.logger.Info("Shutting down RabbitMQ consumer")
	cancel()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}
