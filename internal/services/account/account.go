// Package account содержит операции над учётными записями: профиль
// с текущим состоянием квоты и административные блокировка и удаление.
package account

import (
	"context"
	"log/slog"

	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
	"github.com/workbridge/marketplace-engine/internal/permissions"
)

// Repository определяет методы хранилища, используемые сервисом.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SuspendUser(ctx context.Context, userUID string) error
	DeleteUser(ctx context.Context, userUID string) error
	ListMonthlyClients(ctx context.Context, workerUID string) ([]string, error)
}

// Service реализует операции над учётными записями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get возвращает учётную запись; для исполнителя профиль дополняется
// списком клиентов, учтённых в квоте текущего месяца.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleWorker {
		clients, err := s.repo.ListMonthlyClients(ctx, userUID)
		if err != nil {
			return nil, err
		}
		user.MonthlyNewClientsIDs = clients
	}
	return user, nil
}

// Suspend блокирует учётную запись (роль Support или Super).
// Заблокированная запись не может ни аутентифицироваться, ни действовать.
func (s *Service) Suspend(ctx context.Context, adminRole, userUID string) error {
	if err := permissions.Authorize(adminRole, permissions.OpSuspendUser); err != nil {
		return err
	}
	if err := s.repo.SuspendUser(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("user suspended", sl.UID(userUID))
	return nil
}

// Delete удаляет учётную запись (роль Support или Super).
func (s *Service) Delete(ctx context.Context, adminRole, userUID string) error {
	if err := permissions.Authorize(adminRole, permissions.OpDeleteUser); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("user deleted", sl.UID(userUID))
	return nil
}
