package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/interfaces"
	"go.uber.org/zap"
)

// Handler consumes mail events and delivers them with the wrapped mailer.
type Handler struct {
	mailer interfaces.Mailer
	log    *zap.Logger
}

func NewHandler(mailer interfaces.Mailer, log *zap.Logger) *Handler {
	return &Handler{mailer: mailer, log: log}
}

func (h *Handler) HandleMessage(ctx context.Context, key, value []byte) error {
	var event dto.MailEvent
	if err := json.Unmarshal(value, &event); err != nil {
		h.log.Warn("invalid mail event payload", zap.ByteString("key", key), zap.Error(err))
		return err
	}
	if event.Email == "" || event.Link == "" {
		return fmt.Errorf("mail event %s: missing email or link", key)
	}

	switch string(key) {
	case dto.MailKeyResetPassword:
		return h.mailer.SendPasswordReset(ctx, event.Email, event.Link)
	case dto.MailKeyVerifyEmail:
		return h.mailer.SendVerifyEmail(ctx, event.Email, event.Link)
	}
	return fmt.Errorf("unknown mail event %q", key)
}
