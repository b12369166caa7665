package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPublishTimeout = 5 * time.Second
	exchangeKindDirect    = "direct"
)

// Message is one outbound broker message
type Message struct {
	RoutingKey string
	MessageID  string
	Type       string
	Timestamp  time.Time
	Body       []byte
}

// BrokerPublisher sends messages to a message broker
type BrokerPublisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// AMQPPublisherConfig configures the RabbitMQ publisher
type AMQPPublisherConfig struct {
	URL            string
	Exchange       string
	PublishTimeout time.Duration
	Logger         *zap.Logger
}

// AMQPPublisher publishes persistent JSON messages to a durable direct exchange.
// A failed publish drops the channel; the next publish reconnects once.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	config  AMQPPublisherConfig
	logger  *zap.Logger
}

// NewAMQPPublisher dials the broker and declares the exchange
func NewAMQPPublisher(cfg AMQPPublisherConfig) (*AMQPPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if cfg.Exchange == "" {
		return nil, errors.New("rabbitmq exchange is required")
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &AMQPPublisher{
		config: cfg,
		logger: logger.With(zap.String("exchange", cfg.Exchange)),
	}
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.config.URL)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.config.Exchange,  // name
		exchangeKindDirect, // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.config.Exchange, err)
	}

	p.conn = conn
	p.channel = ch
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Publish sends msg to the exchange with msg.RoutingKey
func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.MessageID,
		Type:         msg.Type,
		Timestamp:    ts,
		Body:         msg.Body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := range 2 {
		if p.channel == nil {
			if err := p.connect(); err != nil {
				lastErr = fmt.Errorf("reconnect failed: %w", err)
				continue
			}
		}

		err := p.channel.PublishWithContext(ctx, p.config.Exchange, msg.RoutingKey, false, false, publishing)
		if err == nil {
			p.logger.Debug("message published",
				zap.String("routing_key", msg.RoutingKey),
				zap.String("message_id", msg.MessageID))
			return nil
		}

		lastErr = err
		p.logger.Warn("publish failed",
			zap.Int("attempt", attempt+1),
			zap.String("routing_key", msg.RoutingKey),
			zap.Error(err))
		p.reset()
	}

	return fmt.Errorf("failed to publish %s: %w", msg.RoutingKey, lastErr)
}

// HealthCheck reports whether the connection is open
func (p *AMQPPublisher) HealthCheck() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("connection is closed")
	}
	if p.channel == nil {
		return errors.New("channel is nil")
	}
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing channel: %w", err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing connection: %w", err))
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}

// Ensure AMQPPublisher implements BrokerPublisher
var _ BrokerPublisher = (*AMQPPublisher)(nil)
