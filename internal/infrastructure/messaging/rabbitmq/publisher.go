package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mealmate/mealmate-api/internal/application/auth"
)

const (
	DefaultExchange = "mealmate.events"

	// Upper bound on a single publish including the broker confirm.
	defaultPublishTimeout = 2 * time.Second
)

// Routing keys carried by account lifecycle events.
const (
	keyUserRegistered = "auth.user.registered"
	keyMFAEnabled     = "auth.user.mfa_enabled"
)

// Publisher emits account lifecycle events on a durable topic exchange.
// The channel runs in confirm mode and each publish waits for the
// broker's ack, so a returned nil means the broker accepted the event.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: DefaultExchange}
	if err := p.dial(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetExchange overrides the exchange name; an empty name is ignored.
func (p *Publisher) SetExchange(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name != "" {
		p.exchange = name
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardown()
	return nil
}

func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publish(ctx, keyUserRegistered, evt)
}

func (p *Publisher) PublishMFAEnabled(ctx context.Context, evt auth.MFAEnabledEvent) error {
	return p.publish(ctx, keyMFAEnabled, evt)
}

// dial establishes the connection, declares the exchange and switches
// the channel into confirm mode. Callers hold p.mu.
func (p *Publisher) dial() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	setupErr := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil)
	if setupErr == nil {
		setupErr = ch.Confirm(false)
	}
	if setupErr != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq setup: %w", setupErr)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// teardown drops the connection so the next publish redials. Callers
// hold p.mu.
func (p *Publisher) teardown() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil {
		p.teardown()
		if err := p.dial(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}

	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err != nil {
		p.teardown()
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: confirm: %w", routingKey, err)
	}
	if !acked {
		return fmt.Errorf("publish %s: nacked by broker", routingKey)
	}
	return nil
}
