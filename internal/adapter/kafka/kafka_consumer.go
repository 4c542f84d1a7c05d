package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
)

// HandlerFunc processes one decoded event of type T.
type HandlerFunc[T any] func(ctx context.Context, ev T) error

// Consumer consumes a set of topics, decoding each message as JSON into T
// before handing it to the handler. One Consumer per message type.
type Consumer[T any] struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc[T]
	Logger *slog.Logger // optional
}

func NewConsumer[T any](group sarama.ConsumerGroup, topics []string, h HandlerFunc[T]) *Consumer[T] {
	return &Consumer[T]{
		Group:  group,
		Topics: topics,
		Handle: h,
	}
}

func (c *Consumer[T]) Start(ctx context.Context) error {
	handler := &cgHandler[T]{handle: c.Handle, logger: c.Logger}
	for {
		if err := c.Group.Consume(ctx, c.Topics, handler); err != nil {
			return err
		}
		// Consume returns on ctx cancellation or a rebalance.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler[T any] struct {
	handle HandlerFunc[T]
	logger *slog.Logger
}

func (h *cgHandler[T]) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler[T]) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler[T]) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev T
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			if h.logger != nil {
				h.logger.Warn("kafka decode error", "err", err, "topic", msg.Topic)
			}
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			if h.logger != nil {
				h.logger.Warn("kafka handler error", "err", err, "key", string(msg.Key), "offset", msg.Offset)
			}
			// Do not mark; retried on next poll or routed to a DLQ pattern.
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
