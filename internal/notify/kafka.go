package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes events as JSON to a topic. The writer is async, so
// Notify returns as soon as the message is queued.
type KafkaNotifier struct {
	writer messageWriter
	log    logrus.FieldLogger
}

func NewKafkaNotifier(log logrus.FieldLogger, topic string, brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.WithError(err).WithField("messages", len(messages)).Warn("failed to publish cart events")
			}
		},
	}
	return &KafkaNotifier{writer: w, log: log}
}

func (k *KafkaNotifier) Notify(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		k.log.WithError(err).Error("failed to marshal cart event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(string(e.Kind)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(e.Kind)},
		},
	}
	if e.ProductID != 0 {
		msg.Key = []byte(strconv.FormatInt(e.ProductID, 10))
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		k.log.WithError(err).Warn("failed to queue cart event")
	}
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
