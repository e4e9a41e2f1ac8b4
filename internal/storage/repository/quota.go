package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/lib/billing"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// RegisterMonthlyClient атомарно выполняет ленивый сброс месячного счётчика
// и регистрацию клиента в квоте исполнителя. Строка исполнителя блокируется
// FOR UPDATE, поэтому конкурирующие создания бронирований на одного
// исполнителя сериализуются и квота не может быть превышена гонкой.
//
// Повторная регистрация уже обслуженного в этом месяце клиента проходит
// без изменений. При исчерпанном лимите транзакция откатывается и
// возвращается errs.ErrQuotaExceeded: никакого частичного добавления.
func (s *Storage) RegisterMonthlyClient(ctx context.Context, workerUID, clientUID string, now time.Time) error {
	const op = "storage.RegisterMonthlyClient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var tier string
	var resetDate time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT subscription_tier, COALESCE(monthly_usage_reset_date, $2)
		 FROM users WHERE uid = $1 FOR UPDATE`,
		workerUID, now.AddDate(0, 1, 0)).Scan(&tier, &resetDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Ленивый сброс: выполняется перед каждой проверкой квоты,
	// отдельный планировщик не нужен.
	if billing.ResetDue(resetDate, now) {
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM monthly_clients WHERE worker_uid = $1`, workerUID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE users SET monthly_usage_reset_date = $1 WHERE uid = $2`,
			billing.NextResetDate(resetDate, now), workerUID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM monthly_clients WHERE worker_uid = $1 AND client_uid = $2)`,
		workerUID, clientUID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return tx.Commit()
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM monthly_clients WHERE worker_uid = $1`,
		workerUID).Scan(&count)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count >= models.TierLimit(tier) {
		return fmt.Errorf("%s: %w", op, errs.ErrQuotaExceeded)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO monthly_clients (worker_uid, client_uid) VALUES ($1, $2)`,
		workerUID, clientUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListMonthlyClients возвращает клиентов, зарегистрированных в квоте
// исполнителя в текущем расчётном месяце.
func (s *Storage) ListMonthlyClients(ctx context.Context, workerUID string) ([]string, error) {
	const op = "storage.ListMonthlyClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT client_uid FROM monthly_clients WHERE worker_uid = $1 ORDER BY registered_at`,
		workerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var clientUID string
		if err := rows.Scan(&clientUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, clientUID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
