// Package marketplace собирает и запускает HTTP-приложение движка бронирований:
// хранилище с миграциями, кеш, шину уведомлений, сервисы и маршруты.
package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/workbridge/marketplace-engine/internal/cache"
	"github.com/workbridge/marketplace-engine/internal/config"
	"github.com/workbridge/marketplace-engine/internal/lib/jwt"
	"github.com/workbridge/marketplace-engine/internal/lib/rabbitmq"
	"github.com/workbridge/marketplace-engine/internal/migrations"
	"github.com/workbridge/marketplace-engine/internal/notify"
	accountservice "github.com/workbridge/marketplace-engine/internal/services/account"
	authservice "github.com/workbridge/marketplace-engine/internal/services/auth"
	bookingservice "github.com/workbridge/marketplace-engine/internal/services/booking"
	paymentservice "github.com/workbridge/marketplace-engine/internal/services/payment"
	quotaservice "github.com/workbridge/marketplace-engine/internal/services/quota"
	subservice "github.com/workbridge/marketplace-engine/internal/services/subscription"
	"github.com/workbridge/marketplace-engine/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер движка и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш и шину уведомлений, строит сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
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
	notifier := notify.NewPublisher(ch, "notifications")

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	accountService := accountservice.New(db, logger)
	quotaService := quotaservice.New(db, logger)
	bookingService := bookingservice.New(db, quotaService, cacheRedis, notifier, logger,
		cfg.EscrowFeePercent, cfg.DefaultContractRate)
	paymentService := paymentservice.New(db, cacheRedis, notifier, logger)
	subscriptionService := subservice.New(db, cacheRedis, notifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, accountService,
		bookingService, paymentService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
