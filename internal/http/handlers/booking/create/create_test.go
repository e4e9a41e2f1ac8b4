package create

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
	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/models"
)

type BookingServiceMock struct {
	mock.Mock
}

func (m *BookingServiceMock) Create(ctx context.Context, clientUID string, req models.DummyCreateBooking) (*models.Booking, error) {
	args := m.Called(ctx, clientUID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	clientUID = "11111111-1111-1111-1111-111111111111"
	workerUID = "22222222-2222-2222-2222-222222222222"
)

func TestCreateHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(BookingServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	validReq := models.DummyCreateBooking{
		WorkerID:      workerUID,
		Service:       "plumbing",
		Date:          "15-09-2026",
		PaymentMethod: "Escrow",
	}

	tests := []struct {
		name           string
		requestBody    any
		withUID        bool
		mockBooking    *models.Booking
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:        "valid booking",
			requestBody: validReq,
			withUID:     true,
			mockBooking: &models.Booking{
				ID:            "b1",
				ClientID:      clientUID,
				WorkerID:      workerUID,
				TotalAmount:   5500,
				Status:        models.StatusUpcoming,
				PaymentStatus: models.PaymentPending,
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withUID:        true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "failed to decode request",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad payment method",
			requestBody: models.DummyCreateBooking{
				WorkerID:      workerUID,
				Service:       "plumbing",
				Date:          "15-09-2026",
				PaymentMethod: "Cash",
			},
			withUID:        true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field PaymentMethod has an unsupported value",
			wantStatus:     "Error",
		},
		{
			name:           "missing user identity",
			requestBody:    validReq,
			withUID:        false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name:           "quota exceeded",
			requestBody:    validReq,
			withUID:        true,
			mockErr:        errs.ErrQuotaExceeded,
			wantStatusCode: http.StatusConflict,
			wantError:      "monthly client quota exceeded, upgrade your subscription plan",
			wantStatus:     "Error",
		},
		{
			name:           "unsuitable worker",
			requestBody:    validReq,
			withUID:        true,
			mockErr:        errs.ErrInvalidBookingRequest,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "invalid booking request",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockBooking != nil || tt.mockErr != nil {
				serviceMock.On("Create", mock.Anything, clientUID, tt.requestBody.(models.DummyCreateBooking)).
					Return(tt.mockBooking, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUID {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, clientUID)
			}
			req = req.WithContext(ctx)

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
			}

			if tt.mockBooking != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockBooking.ID, data["id"])
				assert.Equal(t, float64(tt.mockBooking.TotalAmount), data["totalAmount"])
				assert.Equal(t, tt.mockBooking.PaymentStatus, data["paymentStatus"])
			}

			if tt.mockBooking != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
