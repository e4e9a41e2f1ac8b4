// Package booking содержит бизнес-логику жизненного цикла бронирования:
// создание, отмену, подтверждение выполнения и отзыв.
//
// Машина состояний ведёт две независимые оси: выполнение работ
// (Upcoming, Completed, Cancelled) и движение денег (см. models).
// Способ оплаты фиксируется при создании и никогда не меняется.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/lib/rabbitmq"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Repository определяет методы хранилища, используемые сервисом.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	CreateBooking(ctx context.Context, b models.Booking) (string, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Booking, error)
	CancelBooking(ctx context.Context, id, clientUID string) (int64, error)
	CompleteDirectBooking(ctx context.Context, id, clientUID string) (int64, error)
	ApproveEscrowCompletion(ctx context.Context, id, clientUID string) (int64, error)
	CreateReview(ctx context.Context, review models.Review) (int64, error)
}

// QuotaRegistrar проверяет и регистрирует клиента в месячной квоте исполнителя.
type QuotaRegistrar interface {
	CheckAndRegisterClient(ctx context.Context, workerUID, clientUID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier публикует события движка во внешнюю шину уведомлений.
type Notifier interface {
	Publish(routingKey string, message any) error
}

// Service реализует машину состояний бронирования.
type Service struct {
	repo     Repository
	quota    QuotaRegistrar
	cache    Cache
	notifier Notifier
	log      *slog.Logger

	escrowFeePercent    int64
	defaultContractRate int64
}

// New создаёт новый Service. escrowFeePercent — комиссия площадки для Escrow
// в процентах; defaultContractRate — ставка по умолчанию (0 — выключена).
func New(repo Repository, quota QuotaRegistrar, cache Cache, notifier Notifier,
	log *slog.Logger, escrowFeePercent, defaultContractRate int64) *Service {
	return &Service{
		repo:                repo,
		quota:               quota,
		cache:               cache,
		notifier:            notifier,
		log:                 log,
		escrowFeePercent:    escrowFeePercent,
		defaultContractRate: defaultContractRate,
	}
}

// BookingEvent полезная нагрузка событий бронирования в шине уведомлений.
type BookingEvent struct {
	BookingID   string `json:"booking_id"`
	ClientUID   string `json:"client_uid"`
	WorkerUID   string `json:"worker_uid"`
	Service     string `json:"service"`
	TotalAmount int64  `json:"total_amount"`
}

// resolveRate возвращает ставку исполнителя: почасовую, затем дневную,
// затем за контракт, затем ставку площадки по умолчанию. Ноль означает,
// что пригодной ставки нет.
func (s *Service) resolveRate(worker *models.User) int64 {
	for _, rate := range []*int64{worker.RateHourly, worker.RateDaily, worker.RateContract} {
		if rate != nil && *rate > 0 {
			return *rate
		}
	}
	return s.defaultContractRate
}

// Create создаёт бронирование от имени клиента clientUID.
//
// Проверяет, что клиент не заблокирован, что адресат — действующий
// исполнитель с настроенной ставкой, и регистрирует клиента в месячной
// квоте исполнителя. Для Escrow итоговая сумма включает комиссию площадки
// и оплата начинается с Pending Payment; для Direct деньги движутся вне
// площадки и статус оплаты Not Applicable.
func (s *Service) Create(ctx context.Context, clientUID string, req models.DummyCreateBooking) (*models.Booking, error) {
	date, err := time.Parse("02-01-2006", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %w", errs.ErrInvalidBookingRequest)
	}

	client, err := s.repo.GetUser(ctx, clientUID)
	if err != nil {
		return nil, err
	}
	if client.IsSuspended {
		return nil, errs.ErrSuspended
	}
	if client.Role != models.RoleClient {
		return nil, errs.ErrForbidden
	}

	worker, err := s.repo.GetUser(ctx, req.WorkerID)
	if err != nil {
		return nil, err
	}
	if worker.Role != models.RoleWorker || worker.IsSuspended {
		return nil, fmt.Errorf("target is not an active worker: %w", errs.ErrInvalidBookingRequest)
	}

	amount := s.resolveRate(worker)
	if amount <= 0 {
		return nil, fmt.Errorf("worker has no rate configured: %w", errs.ErrInvalidBookingRequest)
	}

	if err := s.quota.CheckAndRegisterClient(ctx, worker.UID, client.UID); err != nil {
		return nil, err
	}

	b := models.Booking{
		ClientID:      client.UID,
		WorkerID:      worker.UID,
		Service:       req.Service,
		Date:          date,
		Amount:        amount,
		TotalAmount:   amount,
		Status:        models.StatusUpcoming,
		PaymentStatus: models.PaymentNotApplicable,
		PaymentMethod: req.PaymentMethod,
	}
	if req.PaymentMethod == models.MethodEscrow {
		b.TotalAmount = amount + amount*s.escrowFeePercent/100
		b.PaymentStatus = models.PaymentPending
	}

	id, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id

	s.log.Info("created booking",
		slog.String("id", id),
		slog.String("payment_method", b.PaymentMethod),
		slog.Int64("total_amount", b.TotalAmount))

	if err := s.notifier.Publish(rabbitmq.KeyBookingCreated, BookingEvent{
		BookingID:   id,
		ClientUID:   b.ClientID,
		WorkerUID:   b.WorkerID,
		Service:     b.Service,
		TotalAmount: b.TotalAmount,
	}); err != nil {
		s.log.Warn("failed to publish booking.created", sl.Err(err))
	}

	return &b, nil
}

// Read возвращает бронирование по ID, используя кеш или хранилище.
// Читать бронирование могут только его участники.
func (s *Service) Read(ctx context.Context, userUID, id string) (*models.Booking, error) {
	var result *models.Booking
	cacheKey := fmt.Sprintf("booking:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		result, err = s.repo.GetBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to cache booking", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	if result.ClientID != userUID && result.WorkerID != userUID {
		return nil, errs.ErrForbidden
	}
	return result, nil
}

// List возвращает бронирования, в которых участвует учётная запись.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Booking, error) {
	return s.repo.ListBookingsByUser(ctx, userUID, limit, offset)
}

// Cancel отменяет бронирование. Легально только пока статус Upcoming;
// статус оплаты остаётся прежним для аудита.
func (s *Service) Cancel(ctx context.Context, clientUID, id string) error {
	rowsAffected, err := s.repo.CancelBooking(ctx, id, clientUID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return s.explainRejected(ctx, clientUID, id)
	}
	s.invalidate(id)
	s.log.Info("booking cancelled", slog.String("id", id))
	return nil
}

// ApproveCompletion фиксирует подтверждение клиентом выполнения работ.
//
// Direct-бронирование завершается сразу: оплата устроена вне площадки.
// Escrow-бронирование требует подтверждённой оплаты; подтверждение клиента
// продвигает деньги в Pending Payout, а завершается бронирование только
// после отметки администратора о выплате.
func (s *Service) ApproveCompletion(ctx context.Context, clientUID, id string) (*models.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ClientID != clientUID {
		return nil, errs.ErrForbidden
	}

	var rowsAffected int64
	if b.PaymentMethod == models.MethodDirect {
		rowsAffected, err = s.repo.CompleteDirectBooking(ctx, id, clientUID)
	} else {
		rowsAffected, err = s.repo.ApproveEscrowCompletion(ctx, id, clientUID)
	}
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, errs.ErrIllegalTransition
	}

	s.invalidate(id)
	s.log.Info("job completion approved",
		slog.String("id", id),
		slog.String("payment_method", b.PaymentMethod))

	return s.repo.GetBooking(ctx, id)
}

// SubmitReview сохраняет отзыв по завершённому бронированию. Все три оценки
// обязательны; итоговый рейтинг — среднее арифметическое, округлённое до
// одного знака. Повторный отзыв невозможен.
func (s *Service) SubmitReview(ctx context.Context, reviewerUID, id string, req models.DummyReview) (*models.Review, error) {
	if req.Timeliness == 0 || req.Thoroughness == 0 || req.Conduct == 0 {
		return nil, errs.ErrIncompleteReview
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ClientID != reviewerUID {
		return nil, errs.ErrForbidden
	}
	if b.ReviewSubmitted {
		return nil, errs.ErrAlreadyReviewed
	}
	if b.Status != models.StatusCompleted {
		return nil, errs.ErrIllegalTransition
	}

	review := models.Review{
		BookingID:    id,
		ReviewerID:   reviewerUID,
		Timeliness:   req.Timeliness,
		Thoroughness: req.Thoroughness,
		Conduct:      req.Conduct,
		Rating:       math.Round(float64(req.Timeliness+req.Thoroughness+req.Conduct)/3*10) / 10,
	}

	rowsAffected, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		// Конкурентный отзыв успел первым.
		return nil, errs.ErrAlreadyReviewed
	}

	s.invalidate(id)
	s.log.Info("review submitted", slog.String("booking_id", id),
		slog.Float64("rating", review.Rating))
	return &review, nil
}

// explainRejected уточняет причину отказа условного UPDATE: запись не найдена,
// чужое бронирование или нелегальный переход.
func (s *Service) explainRejected(ctx context.Context, clientUID, id string) error {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if b.ClientID != clientUID {
		return errs.ErrForbidden
	}
	return errs.ErrIllegalTransition
}

func (s *Service) invalidate(id string) {
	cacheKey := fmt.Sprintf("booking:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
