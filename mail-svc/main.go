package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/account_service/config"
	"github.com/SundayYogurt/account_service/infra/queue"
	"github.com/SundayYogurt/account_service/internal/logger"
	"github.com/SundayYogurt/account_service/internal/mail"
	"go.uber.org/zap"
)

func main() {
	// ---------- Load Config ----------
	cfg, err := config.LoadMailConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel, "mail-svc")
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zl.Sync()

	zl.Info("mail service starting",
		zap.String("broker", cfg.Kafka.KafkaBroker),
		zap.String("topic", cfg.Kafka.KafkaTopic),
		zap.String("group_id", cfg.Kafka.KafkaGroupID),
	)

	// ---------- Init Mailer ----------
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.MailFrom,
		FromName: cfg.SMTP.MailFromName,
	}, zl)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.Kafka.KafkaBroker,
		cfg.Kafka.KafkaTopic,
		cfg.Kafka.KafkaGroupID,
		cfg.Kafka.KafkaUsername,
		cfg.Kafka.KafkaPassword,
		mail.NewHandler(mailer, zl),
		zl,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------- Start Listening ----------
	zl.Info("mail service listening for events")
	if err := consumer.Listen(ctx); err != nil {
		zl.Fatal("consumer stopped", zap.Error(err))
	}
	zl.Info("mail service stopped")
}
