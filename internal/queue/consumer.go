package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// StartInquiryConsumer consumes inquiry events and appends one JSON log
// line per event to <dir>/inquiry.log.  It reconnects with exponential
// backoff and returns only when ctx is cancelled.
func StartInquiryConsumer(ctx context.Context, url, dir string, log zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "inquiry.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open inquiry log: %w", err)
	}
	defer f.Close()
	sink := zerolog.New(f).With().Timestamp().Logger()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("inquiry consumer: dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, sink, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("inquiry consumer: loop ended, reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sink zerolog.Logger, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("inquiry consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(InquiryQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(InquiryQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleInquiry(d.Body, sink); err != nil {
				log.Error().Err(err).Msg("inquiry consumer: bad message")
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleInquiry decodes one event and writes it to sink.
func handleInquiry(body []byte, sink zerolog.Logger) error {
	var ev InquiryCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.MessageID == 0 || ev.HomeID == 0 {
		return errors.New("event without message or home id")
	}
	sink.Info().
		Uint64("message_id", ev.MessageID).
		Uint64("home_id", ev.HomeID).
		Str("address", ev.Address).
		Uint64("realtor_id", ev.RealtorID).
		Uint64("buyer_id", ev.BuyerID).
		Str("buyer_email", ev.BuyerEmail).
		Int("message_len", len(ev.Message)).
		Msg("inquiry received")
	return nil
}
