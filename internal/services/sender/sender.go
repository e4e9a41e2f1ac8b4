// Package sender разбирает события движка из шины уведомлений
// и рассылает письма участникам.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/lib/smtp"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Repository определяет методы хранилища, используемые сервисом.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SenderService отправляет письма по событиям движка бронирований.
type SenderService struct {
	repo      Repository
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(repo Repository, log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		repo:      repo,
		transport: transport,
		log:       log,
	}
}

// bookingEvent полезная нагрузка событий бронирования и платежей.
type bookingEvent struct {
	BookingID   string `json:"booking_id"`
	ClientUID   string `json:"client_uid"`
	WorkerUID   string `json:"worker_uid"`
	Service     string `json:"service"`
	Amount      int64  `json:"amount"`
	TotalAmount int64  `json:"total_amount"`
}

// subscriptionEvent полезная нагрузка событий подписки.
type subscriptionEvent struct {
	UserUID  string `json:"user_uid"`
	PlanName string `json:"plan_name"`
}

// SendBookingCreated уведомляет исполнителя о новом бронировании.
func (s *SenderService) SendBookingCreated(body []byte) error {
	var event bookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	worker, err := s.repo.GetUser(context.Background(), event.WorkerUID)
	if err != nil {
		return fmt.Errorf("failed to get worker: %w", err)
	}

	subject := "Новое бронирование"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nУ вас новое бронирование услуги %q.\n\nПодробности в личном кабинете.",
		worker.Username, event.Service)
	return s.sendEmail([]string{worker.Email}, subject, bodyText)
}

// SendPaymentUnderReview уведомляет клиента, что квитанция принята на проверку.
func (s *SenderService) SendPaymentUnderReview(body []byte) error {
	var event bookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	client, err := s.repo.GetUser(context.Background(), event.ClientUID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	subject := "Квитанция принята на проверку"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша квитанция по бронированию %s принята на проверку.\n\nМы сообщим о результате.",
		client.Username, event.BookingID)
	return s.sendEmail([]string{client.Email}, subject, bodyText)
}

// SendPaymentConfirmed уведомляет клиента о подтверждении оплаты.
func (s *SenderService) SendPaymentConfirmed(body []byte) error {
	var event bookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	client, err := s.repo.GetUser(context.Background(), event.ClientUID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	subject := "Оплата подтверждена"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nОплата по бронированию %s подтверждена. Средства удерживаются площадкой до подтверждения выполнения работ.",
		client.Username, event.BookingID)
	return s.sendEmail([]string{client.Email}, subject, bodyText)
}

// SendPaymentRejected уведомляет клиента об отклонённой квитанции.
func (s *SenderService) SendPaymentRejected(body []byte) error {
	var event bookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	client, err := s.repo.GetUser(context.Background(), event.ClientUID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	subject := "Квитанция отклонена"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nКвитанция по бронированию %s отклонена администратором.\n\nПожалуйста, загрузите новую квитанцию.",
		client.Username, event.BookingID)
	return s.sendEmail([]string{client.Email}, subject, bodyText)
}

// SendPayoutPaid уведомляет исполнителя о выплате.
func (s *SenderService) SendPayoutPaid(body []byte) error {
	var event bookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	worker, err := s.repo.GetUser(context.Background(), event.WorkerUID)
	if err != nil {
		return fmt.Errorf("failed to get worker: %w", err)
	}

	subject := "Выплата произведена"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВыплата по бронированию %s произведена.",
		worker.Username, event.BookingID)
	return s.sendEmail([]string{worker.Email}, subject, bodyText)
}

// SendSubscriptionRequested уведомляет о регистрации запроса смены тарифа.
func (s *SenderService) SendSubscriptionRequested(body []byte) error {
	var event subscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	user, err := s.repo.GetUser(context.Background(), event.UserUID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	subject := "Запрос смены тарифа получен"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш запрос на тариф %s зарегистрирован.\n\nЗагрузите квитанцию об оплате, чтобы администратор мог подтвердить тариф.",
		user.Username, event.PlanName)
	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

// SendSubscriptionApproved уведомляет о подтверждении тарифа.
func (s *SenderService) SendSubscriptionApproved(body []byte) error {
	var event subscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	user, err := s.repo.GetUser(context.Background(), event.UserUID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	subject := "Тариф подтверждён"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nТариф %s подтверждён и уже действует на вашей учётной записи.",
		user.Username, event.PlanName)
	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
