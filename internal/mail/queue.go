package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/interfaces"
)

// QueueMailer hands emails to the mail worker through the broker. The
// publish is synchronous, so a nil error means the broker acknowledged it.
type QueueMailer struct {
	producer interfaces.ProducerHandler
}

func NewQueueMailer(producer interfaces.ProducerHandler) *QueueMailer {
	return &QueueMailer{producer: producer}
}

func (q *QueueMailer) SendPasswordReset(ctx context.Context, to string, link string) error {
	return q.publish(ctx, dto.MailKeyResetPassword, to, link)
}

func (q *QueueMailer) SendVerifyEmail(ctx context.Context, to string, link string) error {
	return q.publish(ctx, dto.MailKeyVerifyEmail, to, link)
}

func (q *QueueMailer) publish(ctx context.Context, key, to, link string) error {
	payload, err := json.Marshal(dto.MailEvent{Email: to, Link: link})
	if err != nil {
		return err
	}
	if err := q.producer.PublishMessage(ctx, []byte(key), payload); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}
