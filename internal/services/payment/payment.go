// Package payment реализует протокол сверки Escrow-платежей:
// загрузка квитанции клиентом, подтверждение оплаты администратором,
// подтверждение выполнения клиентом и отметка о выплате исполнителю.
//
// Статус оплаты движется строго вперёд:
// Pending Payment → Pending Admin Confirmation → Confirmed → Pending Payout → Paid.
// Единственный обратный переход — явный отказ администратора по квитанции,
// возвращающий оплату в Pending Payment. Площадка держит средства от
// Confirmed до Pending Payout и выплачивает их только после того, как
// клиент подтвердил выполнение работ; это даёт клиенту рычаг удержания.
package payment

import (
	"context"
	"log/slog"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/lib/rabbitmq"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
	"github.com/workbridge/marketplace-engine/internal/permissions"
)

// Repository определяет методы хранилища, используемые сервисом.
type Repository interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	StoreBookingReceipt(ctx context.Context, id, clientUID, receipt string) (int64, error)
	AdvancePaymentStatus(ctx context.Context, id, from, to string) (int64, error)
	RejectPaymentReceipt(ctx context.Context, id string) (int64, error)
	MarkBookingPaid(ctx context.Context, id string) (int64, error)
	ListBookingsByPaymentStatus(ctx context.Context, paymentStatus string, limit, offset int) ([]*models.Booking, error)
}

// Cache описывает инвалидацию кешированных бронирований.
type Cache interface {
	Invalidate(key string) error
}

// Notifier публикует события движка во внешнюю шину уведомлений.
type Notifier interface {
	Publish(routingKey string, message any) error
}

// Service реализует протокол сверки платежей.
type Service struct {
	repo     Repository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// New создаёт новый Service.
func New(repo Repository, cache Cache, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// PaymentEvent полезная нагрузка платёжных событий в шине уведомлений.
type PaymentEvent struct {
	BookingID string `json:"booking_id"`
	ClientUID string `json:"client_uid"`
	WorkerUID string `json:"worker_uid"`
	Amount    int64  `json:"amount"`
}

// UploadReceipt сохраняет квитанцию об оплате и продвигает оплату в
// Pending Admin Confirmation. Легально только для Escrow-бронирования
// в статусе Pending Payment: после действий администратора повторная
// загрузка отклоняется.
func (s *Service) UploadReceipt(ctx context.Context, clientUID, id, receipt string) (*models.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ClientID != clientUID {
		return nil, errs.ErrForbidden
	}
	if b.PaymentMethod != models.MethodEscrow {
		return nil, errs.ErrIllegalTransition
	}

	rowsAffected, err := s.repo.StoreBookingReceipt(ctx, id, clientUID, receipt)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, errs.ErrIllegalTransition
	}

	s.invalidate(id)
	s.log.Info("payment receipt uploaded", slog.String("booking_id", id))
	s.publish(rabbitmq.KeyPaymentReview, b)

	return s.repo.GetBooking(ctx, id)
}

// ConfirmPayment подтверждает оплату администратором (роль Payment или Super).
// Требует сохранённой квитанции; легально только из Pending Admin Confirmation.
func (s *Service) ConfirmPayment(ctx context.Context, adminRole, id string) (*models.Booking, error) {
	if err := permissions.Authorize(adminRole, permissions.OpConfirmPayment); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.PaymentReceipt == nil {
		return nil, errs.ErrMissingReceipt
	}

	rowsAffected, err := s.repo.AdvancePaymentStatus(ctx, id,
		models.PaymentAdminConfirmation, models.PaymentConfirmed)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		// Второй администратор проиграл гонку либо переход нелегален.
		return nil, errs.ErrIllegalTransition
	}

	s.invalidate(id)
	s.log.Info("payment confirmed", slog.String("booking_id", id))
	s.publish(rabbitmq.KeyPaymentConfirmed, b)

	return s.repo.GetBooking(ctx, id)
}

// RejectPayment отклоняет загруженную квитанцию (роль Payment или Super):
// оплата возвращается в Pending Payment, квитанция очищается, клиент
// может загрузить новую.
func (s *Service) RejectPayment(ctx context.Context, adminRole, id string) (*models.Booking, error) {
	if err := permissions.Authorize(adminRole, permissions.OpRejectPayment); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := s.repo.RejectPaymentReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, errs.ErrIllegalTransition
	}

	s.invalidate(id)
	s.log.Info("payment receipt rejected", slog.String("booking_id", id))
	s.publish(rabbitmq.KeyPaymentRejected, b)

	return s.repo.GetBooking(ctx, id)
}

// MarkPaid отмечает выплату исполнителю (роль Payment или Super) и завершает
// бронирование. Легально только из Pending Payout, то есть после того,
// как клиент подтвердил выполнение работ.
func (s *Service) MarkPaid(ctx context.Context, adminRole, id string) (*models.Booking, error) {
	if err := permissions.Authorize(adminRole, permissions.OpMarkPaid); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.JobApprovedByClient {
		return nil, errs.ErrIllegalTransition
	}

	rowsAffected, err := s.repo.MarkBookingPaid(ctx, id)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, errs.ErrIllegalTransition
	}

	s.invalidate(id)
	s.log.Info("payout marked as paid", slog.String("booking_id", id))
	s.publish(rabbitmq.KeyPayoutPaid, b)

	return s.repo.GetBooking(ctx, id)
}

// ListByPaymentStatus возвращает бронирования с заданным статусом оплаты
// для истории платежей и административных очередей (роль Payment или Super).
func (s *Service) ListByPaymentStatus(ctx context.Context, adminRole, paymentStatus string, limit, offset int) ([]*models.Booking, error) {
	if err := permissions.Authorize(adminRole, permissions.OpViewPayments); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByPaymentStatus(ctx, paymentStatus, limit, offset)
}

func (s *Service) publish(routingKey string, b *models.Booking) {
	event := PaymentEvent{
		BookingID: b.ID,
		ClientUID: b.ClientID,
		WorkerUID: b.WorkerID,
		Amount:    b.TotalAmount,
	}
	if err := s.notifier.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish payment event",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}

func (s *Service) invalidate(id string) {
	if err := s.cache.Invalidate("booking:" + id); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("booking_id", id), sl.Err(err))
	}
}
