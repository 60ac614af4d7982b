package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/SundayYogurt/account_service/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
	log         *zap.Logger
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler, log *zap.Logger) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{Username: username, Password: password}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, //10KB
		MaxBytes: 10e6, //10MB
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "Mail Service",
		log:         log.With(zap.String("consumer", "mail")),
	}
}

// Listen blocks until ctx is cancelled. Handler failures are logged and the
// message is committed anyway; mail delivery is not retried.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	defer kc.Reader.Close()

	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			kc.log.Error("read message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		kc.log.Info("received", zap.ByteString("key", msg.Key), zap.Int64("offset", msg.Offset))
		if err := kc.Handler.HandleMessage(ctx, msg.Key, msg.Value); err != nil {
			kc.log.Error("handle message", zap.ByteString("key", msg.Key), zap.Error(err))
		}
	}
}
