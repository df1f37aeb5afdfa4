package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaSink publishes changes as JSON keyed by order id, so every change of one
// order lands on the same partition in commit order.
type KafkaSink struct {
	producer sarama.AsyncProducer
	topic    string
}

// NewKafkaProducer dials brokers with an async producer tuned for small, ordered
// notification messages. Delivery errors are logged.
func NewKafkaProducer(brokers []string, log *zap.Logger) (sarama.AsyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 500 * time.Millisecond
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	go drainErrors(producer, log)
	return producer, nil
}

func drainErrors(producer sarama.AsyncProducer, log *zap.Logger) {
	for err := range producer.Errors() {
		log.Error("kafka delivery failed", zap.String("topic", err.Msg.Topic), zap.Error(err.Err))
	}
}

func NewKafkaSink(producer sarama.AsyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Send(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(c.OrderID.String()),
		Value: sarama.ByteEncoder(payload),
	}
	select {
	case s.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
