package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the enrollment and call-session queues and appends one
// line per event to <Dir>/enrollment.log and <Dir>/calls.log.
type Consumer struct {
	URL string
	Dir string
	Log *slog.Logger
}

// Run connects to RabbitMQ and consumes until ctx is done.  Dial and
// channel failures are retried with exponential backoff capped at 30s;
// malformed messages are rejected without requeue so the loop keeps
// going.
func (c Consumer) Run(ctx context.Context) error {
	lg := c.Log
	if lg == nil {
		lg = slog.Default()
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			lg.Warn("queue-consumer: dial failed", slog.Any("error", err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, lg)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lg.Warn("queue-consumer: consume loop ended, reconnecting", slog.Any("error", err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c Consumer) consume(ctx context.Context, conn *amqp.Connection, lg *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		lg.Warn("queue-consumer: set QoS failed", slog.Any("error", err))
	}

	enrollments, err := declareAndConsume(ch, EnrollmentQueue)
	if err != nil {
		return err
	}
	sessions, err := declareAndConsume(ch, CallSessionQueue)
	if err != nil {
		return err
	}

	for {
		var (
			d     amqp.Delivery
			ok    bool
			queue string
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-enrollments:
			queue = EnrollmentQueue
		case d, ok = <-sessions:
			queue = CallSessionQueue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := Handle(c.Dir, queue, d.Body); err != nil {
			lg.Error("queue-consumer: handle message failed", slog.String("queue", queue), slog.Any("error", err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func declareAndConsume(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("queue declare %s: %w", queue, err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue consume %s: %w", queue, err)
	}
	return msgs, nil
}

// Handle decodes one message from queue and appends its log line under
// dir.
func Handle(dir, queue string, body []byte) error {
	var (
		line string
		file string
	)
	switch queue {
	case EnrollmentQueue:
		var ev EnrollmentConfirmedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line, file = EnrollmentLine(ev), "enrollment.log"
	case CallSessionQueue:
		var ev CallSessionEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line, file = CallSessionLine(ev), "calls.log"
	default:
		return fmt.Errorf("unknown queue %q", queue)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, file), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func EnrollmentLine(ev EnrollmentConfirmedEvent) string {
	seats := fmt.Sprintf("%d/%d", ev.EnrolledStudents, ev.MaxStudents)
	if ev.Full {
		seats += " FULL"
	}
	return fmt.Sprintf("[%s] Enrollment confirmed | classroom_id=%d | classroom=%q | instructor=%q | user_id=%d | user=%q | seats=%s\n",
		ev.EnrolledAt, ev.ClassroomID, ev.ClassroomTitle, ev.Instructor, ev.UserID, ev.UserName, seats)
}

func CallSessionLine(ev CallSessionEvent) string {
	role := "participant"
	if ev.Host {
		role = "host"
	}
	line := fmt.Sprintf("[%s] Call %s | room_id=%s | room=%q | classroom_id=%d | user_id=%d | user=%q | role=%s",
		ev.At, ev.Phase, ev.RoomID, ev.RoomName, ev.ClassroomID, ev.UserID, ev.UserName, role)
	if ev.Phase == SessionEnded {
		line += fmt.Sprintf(" | duration=%ds | recorded=%t", ev.DurationSeconds, ev.Recorded)
	}
	return line + "\n"
}
