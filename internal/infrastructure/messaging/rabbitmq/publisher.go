package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/account-portal/internal/application/account"
	"github.com/baechuer/account-portal/internal/domain"
)

const (
	DefaultExchange             = "accounts.events"
	RoutingKeyAccountRegistered = "account.registered"

	// publishWait bounds a publish when the caller's ctx has no deadline.
	publishWait = 2 * time.Second
)

// ErrUnroutable means the broker accepted the message but no queue is
// bound for its routing key.
var ErrUnroutable = errors.New("rabbitmq: message unroutable")

// Publisher emits account events as persistent JSON messages on a topic
// exchange. Publishes are mandatory and confirmed, and they are
// serialised so each confirm belongs to the message just sent.
type Publisher struct {
	url      string
	exchange string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms <-chan amqp.Confirmation
	returns  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}
	if err := p.dial(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) PublishAccountRegistered(ctx context.Context, evt account.AccountRegisteredEvent) error {
	return p.publish(ctx, RoutingKeyAccountRegistered, evt)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardown()
	return nil
}

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

	setup := func() error {
		if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %q: %w", p.exchange, err)
		}
		if err := ch.Confirm(false); err != nil {
			return fmt.Errorf("enable confirms: %w", err)
		}
		return nil
	}
	if err := setup(); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn, p.ch = conn, ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	return nil
}

func (p *Publisher) teardown() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *Publisher) publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil {
		p.teardown()
		if err := p.dial(); err != nil {
			return domain.ErrRabbitUnavailable(err)
		}
	}
	p.discardStale()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         key,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, key, true, false, msg); err != nil {
		p.teardown()
		return domain.ErrRabbitUnavailable(fmt.Errorf("publish %s: %w", key, err))
	}

	return p.awaitOutcome(ctx, key)
}

// discardStale drops confirms and returns left over from a publish that
// gave up waiting.
func (p *Publisher) discardStale() {
	for {
		select {
		case <-p.confirms:
		case <-p.returns:
		default:
			return
		}
	}
}

// awaitOutcome waits for the broker's verdict. For an unroutable mandatory
// message the broker sends basic.return before the ack, so a return seen
// alongside an ack still counts as a failure.
func (p *Publisher) awaitOutcome(ctx context.Context, key string) error {
	unroutable := func(r amqp.Return) error {
		return fmt.Errorf("%w: key=%s code=%d text=%s", ErrUnroutable, key, r.ReplyCode, r.ReplyText)
	}

	select {
	case r := <-p.returns:
		// Consume the ack that follows so it is not mistaken for the
		// next publish's confirm.
		select {
		case <-p.confirms:
		case <-ctx.Done():
		}
		return unroutable(r)

	case c := <-p.confirms:
		select {
		case r := <-p.returns:
			return unroutable(r)
		default:
		}
		if !c.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s tag=%d", key, c.DeliveryTag)
		}
		return nil

	case <-ctx.Done():
		return domain.ErrRabbitUnavailable(ctx.Err())
	}
}
