// Package quota реализует учёт месячной квоты новых клиентов исполнителя.
//
// Квота считается по числу различных клиентов, впервые обслуженных в текущем
// расчётном месяце; повторные бронирования с уже учтённым клиентом квоту
// не расходуют. Сброс счётчика ленивый: выполняется при первой проверке
// после даты сброса, фоновый планировщик не требуется.
package quota

import (
	"context"
	"log/slog"
	"time"

	"github.com/workbridge/marketplace-engine/internal/lib/sl"
)

// Repository определяет методы хранилища для работы с квотой.
type Repository interface {
	// RegisterMonthlyClient атомарно выполняет сброс при наступлении даты,
	// проверку лимита и регистрацию клиента.
	RegisterMonthlyClient(ctx context.Context, workerUID, clientUID string, now time.Time) error
	// ListMonthlyClients возвращает клиентов, учтённых в текущем месяце.
	ListMonthlyClients(ctx context.Context, workerUID string) ([]string, error)
}

// Service реализует компонент учёта квоты.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CheckAndRegisterClient вызывается при создании бронирования. Возвращает
// errs.ErrQuotaExceeded, если лимит тарифа исчерпан; в этом случае
// состояние квоты не меняется и создание бронирования прерывается.
func (s *Service) CheckAndRegisterClient(ctx context.Context, workerUID, clientUID string) error {
	if err := s.repo.RegisterMonthlyClient(ctx, workerUID, clientUID, time.Now().UTC()); err != nil {
		s.log.Warn("quota registration rejected",
			slog.String("worker_uid", workerUID),
			slog.String("client_uid", clientUID),
			sl.Err(err))
		return err
	}
	return nil
}

// Usage возвращает клиентов, учтённых в квоте исполнителя в текущем месяце.
func (s *Service) Usage(ctx context.Context, workerUID string) ([]string, error) {
	return s.repo.ListMonthlyClients(ctx, workerUID)
}
