package quota_test

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
	quota "github.com/workbridge/marketplace-engine/internal/services/quota"
)

// Мок для Repository
type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) RegisterMonthlyClient(ctx context.Context, workerUID, clientUID string, now time.Time) error {
	args := m.Called(ctx, workerUID, clientUID, now)
	return args.Error(0)
}

func (m *RepoMock) ListMonthlyClients(ctx context.Context, workerUID string) ([]string, error) {
	args := m.Called(ctx, workerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	workerUID = "22222222-2222-2222-2222-222222222222"
	clientUID = "11111111-1111-1111-1111-111111111111"
)

func TestService_CheckAndRegisterClient(t *testing.T) {
	t.Run("registration passes through with current time", func(t *testing.T) {
		repo := new(RepoMock)
		svc := quota.New(repo, newNoopLogger())

		repo.On("RegisterMonthlyClient", mock.Anything, workerUID, clientUID,
			mock.MatchedBy(func(now time.Time) bool {
				return time.Since(now) < time.Minute
			})).Return(nil).Once()

		assert.NoError(t, svc.CheckAndRegisterClient(context.Background(), workerUID, clientUID))
		repo.AssertExpectations(t)
	})

	t.Run("quota exceeded is propagated untouched", func(t *testing.T) {
		repo := new(RepoMock)
		svc := quota.New(repo, newNoopLogger())

		repo.On("RegisterMonthlyClient", mock.Anything, workerUID, clientUID, mock.Anything).
			Return(errs.ErrQuotaExceeded).Once()

		err := svc.CheckAndRegisterClient(context.Background(), workerUID, clientUID)
		assert.ErrorIs(t, err, errs.ErrQuotaExceeded)
	})
}

func TestService_Usage(t *testing.T) {
	repo := new(RepoMock)
	svc := quota.New(repo, newNoopLogger())

	repo.On("ListMonthlyClients", mock.Anything, workerUID).
		Return([]string{clientUID}, nil).Once()

	got, err := svc.Usage(context.Background(), workerUID)
	require.NoError(t, err)
	assert.Equal(t, []string{clientUID}, got)
	repo.AssertExpectations(t)
}
