package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fintrack/internal/logger"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc opens a connection, declares the exchange and returns a channel on
// it together with a func closing the connection.
type dialFunc func(url, exchange string) (channel, func() error, error)

// AMQPPublisher publishes events to a durable topic exchange. A channel that
// the broker closed is re-dialed on the next Publish.
type AMQPPublisher struct {
	mu        sync.Mutex
	url       string
	exchange  string
	dial      dialFunc
	ch        channel
	closeConn func() error
	closed    bool
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	return newAMQPPublisher(url, exchange, dialAMQP)
}

func newAMQPPublisher(url, exchange string, dial dialFunc) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, dial: dial}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialAMQP(url, exchange string) (channel, func() error, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}

	return ch, conn.Close, nil
}

// connect replaces the current channel and connection. Callers hold p.mu
// except during construction.
func (p *AMQPPublisher) connect() error {
	p.release()

	ch, closeConn, err := p.dial(p.url, p.exchange)
	if err != nil {
		return err
	}
	p.ch = ch
	p.closeConn = closeConn
	return nil
}

func (p *AMQPPublisher) release() error {
	var err error
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.closeConn != nil {
		err = p.closeConn()
		p.closeConn = nil
	}
	return err
}

// Publish sends the event as a persistent JSON message routed by its RoutingKey.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	// amqp091 channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publish event: %w", amqp091.ErrClosed)
	}

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.reconnect(); err != nil {
			return err
		}
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, msg)
	if errors.Is(err, amqp091.ErrClosed) {
		if rerr := p.reconnect(); rerr != nil {
			return rerr
		}
		err = p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	logger.Get().Debugw("published audit event",
		"exchange", p.exchange,
		"routing_key", event.RoutingKey(),
		"resource_id", event.ResourceID,
	)
	return nil
}

func (p *AMQPPublisher) reconnect() error {
	logger.Get().Warnw("AMQP channel closed, reconnecting", "exchange", p.exchange)
	if err := p.connect(); err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	return nil
}

// Close closes the channel and the connection. Later publishes fail.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return p.release()
}
