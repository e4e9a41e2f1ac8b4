package middlewarectx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workbridge/marketplace-engine/internal/models"
)

type UserProviderMock struct {
	mock.Mock
}

func (m *UserProviderMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testUID = "11111111-1111-1111-1111-111111111111"

func TestSuspendedGuardMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		withUID        bool
		setupMocks     func(*UserProviderMock)
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:    "active account passes",
			withUID: true,
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, testUID).
					Return(&models.User{UID: testUID, Role: models.RoleClient}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:    "suspended account is rejected",
			withUID: true,
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, testUID).
					Return(&models.User{UID: testUID, IsSuspended: true}, nil).Once()
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing identity",
			withUID:        false,
			setupMocks:     func(_ *UserProviderMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:    "storage error",
			withUID: true,
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, testUID).
					Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usersMock := new(UserProviderMock)
			tt.setupMocks(usersMock)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tt.withUID {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, testUID))
			}
			rec := httptest.NewRecorder()

			SuspendedGuardMiddleware(newNoopLogger(), usersMock)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, handlerCalled)
			usersMock.AssertExpectations(t)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		withUID        bool
		setupMocks     func(*UserProviderMock)
		wantStatusCode int
		wantAdminRole  string
		wantNextCalled bool
	}{
		{
			name:    "admin passes with role in context",
			withUID: true,
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, testUID).
					Return(&models.User{
						UID:       testUID,
						IsAdmin:   true,
						AdminRole: models.AdminRolePayment,
					}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantAdminRole:  models.AdminRolePayment,
			wantNextCalled: true,
		},
		{
			name:    "regular user is rejected",
			withUID: true,
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, testUID).
					Return(&models.User{UID: testUID, Role: models.RoleClient}, nil).Once()
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:    "suspended admin is rejected",
			withUID: true,
			setupMocks: func(m *UserProviderMock) {
				m.On("GetUser", mock.Anything, testUID).
					Return(&models.User{
						UID:         testUID,
						IsAdmin:     true,
						AdminRole:   models.AdminRoleSuper,
						IsSuspended: true,
					}, nil).Once()
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing identity",
			withUID:        false,
			setupMocks:     func(_ *UserProviderMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usersMock := new(UserProviderMock)
			tt.setupMocks(usersMock)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, tt.wantAdminRole, r.Context().Value(AdminRole))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/payments", nil)
			if tt.withUID {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, testUID))
			}
			rec := httptest.NewRecorder()

			AdminMiddleware(newNoopLogger(), usersMock)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, handlerCalled)
			usersMock.AssertExpectations(t)
		})
	}
}
