package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	minReconnectBackoff = time.Second
	maxReconnectBackoff = 30 * time.Second
)

// ErrBrokerUnavailable is returned while the publisher waits out the backoff
// after a failed reconnect.
var ErrBrokerUnavailable = errors.New("rabbitmq unavailable, reconnect pending")

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// brokerConn is one broker connection with the channel used for publishing.
type brokerConn struct {
	conn io.Closer
	ch   publishChannel
}

func (c *brokerConn) close() error {
	chErr := c.ch.Close()
	connErr := c.conn.Close()

	return errors.Join(chErr, connErr)
}

// AMQPPublisher publishes events to a durable queue named after the event
// type through the default exchange. A closed connection is redialled on the
// next publish, with doubling backoff between failed attempts.
type AMQPPublisher struct {
	url  string
	dial func(url string) (*brokerConn, error)
	now  func() time.Time

	mu       sync.Mutex
	conn     *brokerConn
	backoff  time.Duration
	nextDial time.Time
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := newAMQPPublisher(url, dialBroker, time.Now)

	conn, err := p.dial(url)
	if err != nil {
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newAMQPPublisher(url string, dial func(string) (*brokerConn, error), now func() time.Time) *AMQPPublisher {
	return &AMQPPublisher{
		url:     url,
		dial:    dial,
		now:     now,
		backoff: minReconnectBackoff,
	}
}

func dialBroker(url string) (*brokerConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel open: %w", err)
	}

	for _, queue := range []string{TypeReservationConfirmed, TypeReservationCancelled} {
		_, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
		}
	}

	return &brokerConn{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ReservationID.String(),
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publish(ctx, event.Type, msg)
	if errors.Is(err, amqp.ErrClosed) {
		p.drop()
		err = p.publish(ctx, event.Type, msg)
	}

	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", event.Type, err)
	}

	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, msg amqp.Publishing) error {
	if err := p.ensureConnected(); err != nil {
		return err
	}

	return p.conn.ch.PublishWithContext(ctx, "", queue, false, false, msg)
}

// ensureConnected must be called with p.mu held.
func (p *AMQPPublisher) ensureConnected() error {
	if p.conn != nil && !p.conn.ch.IsClosed() {
		return nil
	}

	p.drop()

	if p.now().Before(p.nextDial) {
		return ErrBrokerUnavailable
	}

	conn, err := p.dial(p.url)
	if err != nil {
		p.nextDial = p.now().Add(p.backoff)
		p.backoff = min(2*p.backoff, maxReconnectBackoff)
		return err
	}

	p.conn = conn
	p.backoff = minReconnectBackoff
	p.nextDial = time.Time{}

	return nil
}

func (p *AMQPPublisher) drop() {
	if p.conn == nil {
		return
	}

	// the broker already tore the connection down
	_ = p.conn.close()
	p.conn = nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}

	err := p.conn.close()
	p.conn = nil

	return err
}
