package main

import (
	"context"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageReader is the part of *kafkaGo.Reader the consume loop needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkaGo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error
}

func newReader(brokers []string, topic, groupID string) *kafkaGo.Reader {
	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

// consume fetches messages until ctx is cancelled. Each message is committed
// after handle returns, whether or not it succeeded: notifications are best
// effort and a bad message must not stall the partition.
func consume(ctx context.Context, r messageReader, handle func(ctx context.Context, msg kafkaGo.Message) error, log *zap.Logger) {
	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer shutting down")
				return
			}
			log.Error("error reading message", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			log.Error("error handling message",
				zap.String("key", string(msg.Key)),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
		if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Warn("commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}
