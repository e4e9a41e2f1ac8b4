package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	tests := []struct {
		name           string
		requestBody    any
		mockToken      string
		mockRole       string
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid login",
			requestBody:    models.DummyLoginUser{Username: "ivan", Password: "password123"},
			mockToken:      "signed-token",
			mockRole:       "worker",
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token":    "signed-token",
				"role":     "worker",
				"username": "ivan",
			},
			wantStatus: "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing password",
			requestBody:    models.DummyLoginUser{Username: "ivan"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "wrong credentials",
			requestBody:    models.DummyLoginUser{Username: "ivan", Password: "wrongpass"},
			mockErr:        errs.ErrForbidden,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
		{
			name:           "suspended account",
			requestBody:    models.DummyLoginUser{Username: "ivan", Password: "password123"},
			mockErr:        errs.ErrSuspended,
			wantStatusCode: http.StatusForbidden,
			wantError:      "account is suspended",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockToken != "" || tt.mockErr != nil {
				req := tt.requestBody.(models.DummyLoginUser)
				authMock.On("Login", mock.Anything, req.Username, req.Password).
					Return(tt.mockToken, tt.mockRole, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
			}

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			} else {
				assert.Nil(t, got["data"])
			}

			if tt.mockToken != "" || tt.mockErr != nil {
				authMock.AssertExpectations(t)
			}
		})
	}
}
