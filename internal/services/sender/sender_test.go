package sender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workbridge/marketplace-engine/internal/lib/smtp"
	"github.com/workbridge/marketplace-engine/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func setupSuccessfulSend(t *MockTransport, recipient string) {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	t.On("GetSMTPUser").Return("noreply@workbridge.example")
	t.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "noreply@workbridge.example").Return(nil).Once()
	mockClient.On("Rcpt", recipient).Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
}

func TestSenderService_SendBookingCreated(t *testing.T) {
	worker := &models.User{
		UID:      "worker123",
		Email:    "worker@example.com",
		Username: "masterivan",
	}

	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockRepository, *MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - notify worker about new booking",
			body: []byte(`{"booking_id":"b1","client_uid":"client123","worker_uid":"worker123","service":"plumbing","total_amount":5500}`),
			setupMocks: func(r *MockRepository, t *MockTransport) {
				r.On("GetUser", mock.Anything, "worker123").Return(worker, nil).Once()
				setupSuccessfulSend(t, "worker@example.com")
			},
			expectedError: false,
		},
		{
			name: "invalid JSON",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockRepository, _ *MockTransport) {
				// No calls expected for invalid JSON
			},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "repository error",
			body: []byte(`{"booking_id":"b1","worker_uid":"worker123"}`),
			setupMocks: func(r *MockRepository, _ *MockTransport) {
				r.On("GetUser", mock.Anything, "worker123").
					Return(nil, errors.New("user not found")).Once()
			},
			expectedError: true,
			errorMessage:  "failed to get worker: user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			transport := new(MockTransport)
			service := NewSenderService(repo, newNoopLogger(), transport)

			tt.setupMocks(repo, transport)

			err := service.SendBookingCreated(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_PaymentEmails(t *testing.T) {
	client := &models.User{
		UID:      "client123",
		Email:    "client@example.com",
		Username: "petrov",
	}
	body := []byte(`{"booking_id":"b1","client_uid":"client123","worker_uid":"worker123","amount":5500}`)

	service := func(r *MockRepository, tr *MockTransport) *SenderService {
		return NewSenderService(r, newNoopLogger(), tr)
	}

	tests := []struct {
		name string
		send func(s *SenderService) error
	}{
		{"payment under review", func(s *SenderService) error { return s.SendPaymentUnderReview(body) }},
		{"payment confirmed", func(s *SenderService) error { return s.SendPaymentConfirmed(body) }},
		{"payment rejected", func(s *SenderService) error { return s.SendPaymentRejected(body) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			transport := new(MockTransport)

			repo.On("GetUser", mock.Anything, "client123").Return(client, nil).Once()
			setupSuccessfulSend(transport, "client@example.com")

			assert.NoError(t, tt.send(service(repo, transport)))

			repo.AssertExpectations(t)
			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_SendPayoutPaid(t *testing.T) {
	worker := &models.User{
		UID:      "worker123",
		Email:    "worker@example.com",
		Username: "masterivan",
	}

	repo := new(MockRepository)
	transport := new(MockTransport)
	service := NewSenderService(repo, newNoopLogger(), transport)

	repo.On("GetUser", mock.Anything, "worker123").Return(worker, nil).Once()
	setupSuccessfulSend(transport, "worker@example.com")

	err := service.SendPayoutPaid([]byte(`{"booking_id":"b1","worker_uid":"worker123","amount":5500}`))
	assert.NoError(t, err)

	repo.AssertExpectations(t)
	transport.AssertExpectations(t)
}

func TestSenderService_SubscriptionEmails(t *testing.T) {
	user := &models.User{
		UID:      "user123",
		Email:    "user@example.com",
		Username: "petrov",
	}
	body := []byte(`{"user_uid":"user123","plan_name":"Pro"}`)

	tests := []struct {
		name          string
		send          func(s *SenderService) error
		setupMocks    func(*MockRepository, *MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "subscription requested",
			send: func(s *SenderService) error { return s.SendSubscriptionRequested(body) },
			setupMocks: func(r *MockRepository, t *MockTransport) {
				r.On("GetUser", mock.Anything, "user123").Return(user, nil).Once()
				setupSuccessfulSend(t, "user@example.com")
			},
		},
		{
			name: "subscription approved",
			send: func(s *SenderService) error { return s.SendSubscriptionApproved(body) },
			setupMocks: func(r *MockRepository, t *MockTransport) {
				r.On("GetUser", mock.Anything, "user123").Return(user, nil).Once()
				setupSuccessfulSend(t, "user@example.com")
			},
		},
		{
			name: "repository error",
			send: func(s *SenderService) error { return s.SendSubscriptionApproved(body) },
			setupMocks: func(r *MockRepository, _ *MockTransport) {
				r.On("GetUser", mock.Anything, "user123").
					Return(nil, errors.New("user not found")).Once()
			},
			expectedError: true,
			errorMessage:  "failed to get user: user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			transport := new(MockTransport)
			service := NewSenderService(repo, newNoopLogger(), transport)

			tt.setupMocks(repo, transport)

			err := tt.send(service)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_SMTPErrorHandling(t *testing.T) {
	worker := &models.User{
		UID:      "worker123",
		Email:    "worker@example.com",
		Username: "masterivan",
	}
	body := []byte(`{"booking_id":"b1","worker_uid":"worker123","service":"plumbing"}`)

	tests := []struct {
		name         string
		setupMocks   func(*MockTransport)
		errorMessage string
	}{
		{
			name: "SMTP connection error",
			setupMocks: func(t *MockTransport) {
				t.On("GetSMTPUser").Return("noreply@workbridge.example")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			errorMessage: "connection error",
		},
		{
			name: "SMTP Mail error",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("noreply@workbridge.example")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@workbridge.example").Return(errors.New("mail error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "mail error",
		},
		{
			name: "SMTP Rcpt error",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("noreply@workbridge.example")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@workbridge.example").Return(nil).Once()
				mockClient.On("Rcpt", "worker@example.com").Return(errors.New("rcpt error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "rcpt error",
		},
		{
			name: "SMTP Data error",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("noreply@workbridge.example")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@workbridge.example").Return(nil).Once()
				mockClient.On("Rcpt", "worker@example.com").Return(nil).Once()
				mockClient.On("Data").Return(nil, errors.New("data error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "data error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			transport := new(MockTransport)
			service := NewSenderService(repo, newNoopLogger(), transport)

			repo.On("GetUser", mock.Anything, "worker123").Return(worker, nil).Once()
			tt.setupMocks(transport)

			err := service.SendBookingCreated(body)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMessage)

			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_NewSenderService(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	logger := newNoopLogger()

	service := NewSenderService(repo, logger, transport)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, transport, service.transport)
	assert.Equal(t, logger, service.log)
}
