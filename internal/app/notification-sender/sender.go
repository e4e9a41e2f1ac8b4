// Package sender собирает и запускает сервис отправки уведомлений:
// потребителей очередей шины notifications и SMTP-транспорт.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/workbridge/marketplace-engine/internal/config"
	"github.com/workbridge/marketplace-engine/internal/lib/rabbitmq"
	"github.com/workbridge/marketplace-engine/internal/lib/smtp"
	senderservice "github.com/workbridge/marketplace-engine/internal/services/sender"
	"github.com/workbridge/marketplace-engine/internal/storage/repository"
)

// App инкапсулирует потребителей очередей уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New собирает приложение: хранилище для адресов получателей, подключение
// к RabbitMQ с объявлением очередей и SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(db, logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей всех очередей уведомлений и блокируется
// до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	consumers := map[string]func([]byte) error{
		"notification.booking-created":        a.senderService.SendBookingCreated,
		"notification.payment-review":         a.senderService.SendPaymentUnderReview,
		"notification.payment-confirmed":      a.senderService.SendPaymentConfirmed,
		"notification.payment-rejected":       a.senderService.SendPaymentRejected,
		"notification.payout-paid":            a.senderService.SendPayoutPaid,
		"notification.subscription-requested": a.senderService.SendSubscriptionRequested,
		"notification.subscription-approved":  a.senderService.SendSubscriptionApproved,
	}

	for queue, handler := range consumers {
		if err := rabbitmq.ConsumerMessage(ctx, a.ch, queue, handler); err != nil {
			a.logger.Error("failed to start consumer",
				slog.String("queue", queue), slog.Any("err", err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("Notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
