// Package subscription реализует жизненный цикл смены тарифа:
// запрос апгрейда, загрузку квитанции и подтверждение администратором
// из очереди верификации.
//
// Выбор тарифа лишь создаёт запрос pendingSubscription на учётной записи.
// Тариф применяется только после того, как администратор с ролью
// Verification (или Super) подтвердит загруженную квитанцию; тогда запрос
// и квитанция очищаются, а дата окончания подписки сдвигается на один
// расчётный период от момента подтверждения.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/lib/billing"
	"github.com/workbridge/marketplace-engine/internal/lib/rabbitmq"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
	"github.com/workbridge/marketplace-engine/internal/permissions"
)

// Repository определяет методы хранилища, используемые сервисом.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetPendingSubscription(ctx context.Context, userUID, planName, period string) error
	SetSubscriptionReceipt(ctx context.Context, userUID, receipt string) (int64, error)
	ApplyPendingSubscription(ctx context.Context, userUID string, endDate time.Time) (int64, error)
	ListPendingSubscriptions(ctx context.Context, limit, offset int) ([]*models.User, error)
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

// Service реализует бизнес-логику подписок.
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

// SubscriptionEvent полезная нагрузка событий подписки в шине уведомлений.
type SubscriptionEvent struct {
	UserUID  string `json:"user_uid"`
	PlanName string `json:"plan_name"`
}

// Plans возвращает каталог тарифов для роли. Каталог неизменяемый,
// поэтому кешируется надолго.
func (s *Service) Plans(role string) []models.Plan {
	cacheKey := fmt.Sprintf("plans:%s", role)
	var plans []models.Plan
	found, err := s.cache.Get(cacheKey, &plans)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return plans
	}
	plans = models.AvailablePlans(role)
	if err := s.cache.Set(cacheKey, plans, 24*time.Hour); err != nil {
		s.log.Warn("failed to cache plans", slog.String("key", cacheKey), sl.Err(err))
	}
	return plans
}

// RequestUpgrade фиксирует запрос смены тарифа. План должен существовать
// для роли учётной записи; прежняя неподтверждённая квитанция сбрасывается.
func (s *Service) RequestUpgrade(ctx context.Context, userUID, planName, period string) error {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if models.FindPlan(user.Role, planName) == nil {
		return fmt.Errorf("unknown plan %q for role %q: %w", planName, user.Role, errs.ErrNotFound)
	}

	if err := s.repo.SetPendingSubscription(ctx, userUID, planName, period); err != nil {
		return err
	}

	s.log.Info("subscription upgrade requested",
		sl.UID(userUID), slog.String("plan", planName), slog.String("period", period))

	if err := s.notifier.Publish(rabbitmq.KeySubscriptionRequested, SubscriptionEvent{
		UserUID:  userUID,
		PlanName: planName,
	}); err != nil {
		s.log.Warn("failed to publish subscription.requested", sl.Err(err))
	}
	return nil
}

// UploadReceipt сохраняет квитанцию об оплате тарифа. Легально только
// при наличии неподтверждённого запроса смены тарифа.
func (s *Service) UploadReceipt(ctx context.Context, userUID, receipt string) error {
	rowsAffected, err := s.repo.SetSubscriptionReceipt(ctx, userUID, receipt)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errs.ErrIllegalTransition
	}
	s.log.Info("subscription receipt uploaded", sl.UID(userUID))
	return nil
}

// Approve подтверждает запрошенный тариф (роль Verification или Super).
// Требует и запроса, и квитанции; тариф копируется из запроса, запрос и
// квитанция очищаются, дата окончания подписки выставляется на один
// расчётный период от момента подтверждения.
func (s *Service) Approve(ctx context.Context, adminRole, userUID string) (*models.User, error) {
	if err := permissions.Authorize(adminRole, permissions.OpApproveSubscription); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if user.PendingSubscription == nil {
		return nil, errs.ErrIllegalTransition
	}
	if user.SubscriptionReceipt == nil {
		return nil, errs.ErrMissingReceipt
	}

	period := models.PeriodMonthly
	if user.PendingPeriod != nil {
		period = *user.PendingPeriod
	}
	endDate := billing.SubscriptionEnd(time.Now().UTC(), period)

	rowsAffected, err := s.repo.ApplyPendingSubscription(ctx, userUID, endDate)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		// Запрос успел измениться конкурентно.
		return nil, errs.ErrIllegalTransition
	}

	s.log.Info("subscription approved",
		sl.UID(userUID), slog.String("plan", *user.PendingSubscription))

	if err := s.notifier.Publish(rabbitmq.KeySubscriptionApproved, SubscriptionEvent{
		UserUID:  userUID,
		PlanName: *user.PendingSubscription,
	}); err != nil {
		s.log.Warn("failed to publish subscription.approved", sl.Err(err))
	}

	return s.repo.GetUser(ctx, userUID)
}

// VerificationQueue возвращает учётные записи с неподтверждёнными запросами
// смены тарифа (роль Verification или Super).
func (s *Service) VerificationQueue(ctx context.Context, adminRole string, limit, offset int) ([]*models.User, error) {
	if err := permissions.Authorize(adminRole, permissions.OpApproveSubscription); err != nil {
		return nil, err
	}
	return s.repo.ListPendingSubscriptions(ctx, limit, offset)
}
