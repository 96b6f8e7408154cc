package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/nihongo-sekai/internal/metrics"
)

// EventPublisher hands a domain event to the broker.  Callers treat
// failures as non-fatal: the request that produced the event has already
// succeeded.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, event any) error
}

// Publisher publishes JSON events to durable RabbitMQ queues on the
// default exchange.  The connection is opened lazily and re-dialled after
// any failure.
type Publisher struct {
	url string
	log *slog.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewPublisher(url string, lg *slog.Logger) *Publisher {
	if lg == nil {
		lg = slog.Default()
	}
	return &Publisher{url: url, log: lg, declared: make(map[string]bool)}
}

// Publish marshals event and sends it as a persistent message with the
// queue name as routing key.
func (p *Publisher) Publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(queue, "error").Inc()
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.publishLocked(ctx, queue, body); err != nil {
		p.log.WarnContext(ctx, "rabbitmq: publish failed", slog.String("queue", queue), slog.Any("error", err))
		p.resetLocked()
		metrics.EventsPublished.WithLabelValues(queue, "error").Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(queue, "ok").Inc()
	return nil
}

func (p *Publisher) publishLocked(ctx context.Context, queue string, body []byte) error {
	if p.ch == nil || p.ch.IsClosed() {
		p.resetLocked()
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("dial: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("channel open: %w", err)
		}
		p.conn, p.ch = conn, ch
	}
	if !p.declared[queue] {
		if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare: %w", err)
		}
		p.declared[queue] = true
	}
	return p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
	p.declared = make(map[string]bool)
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}
