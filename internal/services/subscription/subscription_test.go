package subscription_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/models"
	subscription "github.com/workbridge/marketplace-engine/internal/services/subscription"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) SetPendingSubscription(ctx context.Context, userUID, planName, period string) error {
	args := m.Called(ctx, userUID, planName, period)
	return args.Error(0)
}

func (m *RepoMock) SetSubscriptionReceipt(ctx context.Context, userUID, receipt string) (int64, error) {
	args := m.Called(ctx, userUID, receipt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ApplyPendingSubscription(ctx context.Context, userUID string, endDate time.Time) (int64, error) {
	args := m.Called(ctx, userUID, endDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListPendingSubscriptions(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Мок для Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const userUID = "44444444-4444-4444-4444-444444444444"

func str(v string) *string { return &v }

func newService(repo *RepoMock, cache *CacheMock, notifier *NotifierMock) *subscription.Service {
	return subscription.New(repo, cache, notifier, newNoopLogger())
}

func TestService_Plans(t *testing.T) {
	t.Run("cache miss fills catalogue from reference data", func(t *testing.T) {
		cache := new(CacheMock)
		svc := newService(new(RepoMock), cache, new(NotifierMock))

		cache.On("Get", "plans:worker", mock.Anything).Return(false, nil).Once()
		cache.On("Set", "plans:worker", mock.Anything, 24*time.Hour).Return(nil).Once()

		plans := svc.Plans(models.RoleWorker)
		require.Len(t, plans, 4)
		assert.Equal(t, models.TierFree, plans[0].Name)
		assert.Equal(t, 1, plans[0].MaxClients)
		assert.Equal(t, 13, plans[3].MaxClients)
		cache.AssertExpectations(t)
	})

	t.Run("client catalogue counts job posts instead of clients", func(t *testing.T) {
		cache := new(CacheMock)
		svc := newService(new(RepoMock), cache, new(NotifierMock))

		cache.On("Get", "plans:client", mock.Anything).Return(false, nil).Once()
		cache.On("Set", "plans:client", mock.Anything, 24*time.Hour).Return(nil).Once()

		plans := svc.Plans(models.RoleClient)
		require.Len(t, plans, 4)
		assert.Equal(t, 2, plans[0].MaxJobPosts)
		assert.Zero(t, plans[0].MaxClients)
	})
}

func TestService_RequestUpgrade(t *testing.T) {
	tests := []struct {
		name       string
		planName   string
		setupMocks func(r *RepoMock, n *NotifierMock)
		wantErr    error
	}{
		{
			name:     "request stores pending plan and period",
			planName: models.TierPro,
			setupMocks: func(r *RepoMock, n *NotifierMock) {
				r.On("GetUser", mock.Anything, userUID).
					Return(&models.User{UID: userUID, Role: models.RoleWorker}, nil).Once()
				r.On("SetPendingSubscription", mock.Anything, userUID, models.TierPro, models.PeriodYearly).
					Return(nil).Once()
				n.On("Publish", "subscription.requested", subscription.SubscriptionEvent{
					UserUID:  userUID,
					PlanName: models.TierPro,
				}).Return(nil).Once()
			},
		},
		{
			name:     "unknown plan",
			planName: "Platinum",
			setupMocks: func(r *RepoMock, _ *NotifierMock) {
				r.On("GetUser", mock.Anything, userUID).
					Return(&models.User{UID: userUID, Role: models.RoleWorker}, nil).Once()
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			notifier := new(NotifierMock)
			svc := newService(repo, new(CacheMock), notifier)

			tt.setupMocks(repo, notifier)

			err := svc.RequestUpgrade(context.Background(), userUID, tt.planName, models.PeriodYearly)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_UploadReceipt(t *testing.T) {
	t.Run("receipt stored against pending request", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(NotifierMock))

		repo.On("SetSubscriptionReceipt", mock.Anything, userUID, "bank-ref-77").
			Return(int64(1), nil).Once()

		assert.NoError(t, svc.UploadReceipt(context.Background(), userUID, "bank-ref-77"))
		repo.AssertExpectations(t)
	})

	t.Run("receipt without pending request is rejected", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(NotifierMock))

		repo.On("SetSubscriptionReceipt", mock.Anything, userUID, "bank-ref-77").
			Return(int64(0), nil).Once()

		err := svc.UploadReceipt(context.Background(), userUID, "bank-ref-77")
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestService_Approve(t *testing.T) {
	pendingUser := func() *models.User {
		return &models.User{
			UID:                 userUID,
			Role:                models.RoleWorker,
			SubscriptionTier:    models.TierFree,
			PendingSubscription: str(models.TierPro),
			PendingPeriod:       str(models.PeriodMonthly),
			SubscriptionReceipt: str("bank-ref-77"),
		}
	}

	tests := []struct {
		name       string
		adminRole  string
		setupMocks func(r *RepoMock, n *NotifierMock)
		wantErr    error
	}{
		{
			name:      "verification admin applies the pending plan",
			adminRole: models.AdminRoleVerification,
			setupMocks: func(r *RepoMock, n *NotifierMock) {
				r.On("GetUser", mock.Anything, userUID).Return(pendingUser(), nil).Once()
				r.On("ApplyPendingSubscription", mock.Anything, userUID,
					mock.MatchedBy(func(endDate time.Time) bool {
						// Месячный период: конец подписки примерно через месяц.
						return endDate.After(time.Now().UTC().AddDate(0, 0, 27))
					})).Return(int64(1), nil).Once()
				n.On("Publish", "subscription.approved", subscription.SubscriptionEvent{
					UserUID:  userUID,
					PlanName: models.TierPro,
				}).Return(nil).Once()
				applied := pendingUser()
				applied.SubscriptionTier = models.TierPro
				applied.PendingSubscription = nil
				applied.PendingPeriod = nil
				applied.SubscriptionReceipt = nil
				r.On("GetUser", mock.Anything, userUID).Return(applied, nil).Once()
			},
		},
		{
			name:       "payment admin is denied",
			adminRole:  models.AdminRolePayment,
			setupMocks: func(_ *RepoMock, _ *NotifierMock) {},
			wantErr:    errs.ErrForbidden,
		},
		{
			name:      "no pending request",
			adminRole: models.AdminRoleVerification,
			setupMocks: func(r *RepoMock, _ *NotifierMock) {
				u := pendingUser()
				u.PendingSubscription = nil
				r.On("GetUser", mock.Anything, userUID).Return(u, nil).Once()
			},
			wantErr: errs.ErrIllegalTransition,
		},
		{
			name:      "no receipt",
			adminRole: models.AdminRoleVerification,
			setupMocks: func(r *RepoMock, _ *NotifierMock) {
				u := pendingUser()
				u.SubscriptionReceipt = nil
				r.On("GetUser", mock.Anything, userUID).Return(u, nil).Once()
			},
			wantErr: errs.ErrMissingReceipt,
		},
		{
			name:      "concurrent change loses the race",
			adminRole: models.AdminRoleVerification,
			setupMocks: func(r *RepoMock, _ *NotifierMock) {
				r.On("GetUser", mock.Anything, userUID).Return(pendingUser(), nil).Once()
				r.On("ApplyPendingSubscription", mock.Anything, userUID, mock.Anything).
					Return(int64(0), nil).Once()
			},
			wantErr: errs.ErrIllegalTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			notifier := new(NotifierMock)
			svc := newService(repo, new(CacheMock), notifier)

			tt.setupMocks(repo, notifier)

			got, err := svc.Approve(context.Background(), tt.adminRole, userUID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.TierPro, got.SubscriptionTier)
				assert.Nil(t, got.PendingSubscription)
				assert.Nil(t, got.SubscriptionReceipt)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_VerificationQueue(t *testing.T) {
	t.Run("verification admin sees pending accounts", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(NotifierMock))

		want := []*models.User{{UID: userUID, PendingSubscription: str(models.TierPro)}}
		repo.On("ListPendingSubscriptions", mock.Anything, 20, 0).Return(want, nil).Once()

		got, err := svc.VerificationQueue(context.Background(), models.AdminRoleVerification, 20, 0)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("support admin is denied", func(t *testing.T) {
		svc := newService(new(RepoMock), new(CacheMock), new(NotifierMock))
		_, err := svc.VerificationQueue(context.Background(), models.AdminRoleSupport, 20, 0)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}
