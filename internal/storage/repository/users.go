package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, is_admin, admin_role,
			      is_suspended, subscription_tier, pending_subscription, pending_period,
			      subscription_receipt, subscription_end_date, monthly_usage_reset_date,
			      rate_hourly, rate_daily, rate_contract, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var adminRole sql.NullString
	var subEndDate, resetDate sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.IsAdmin, &adminRole, &u.IsSuspended, &u.SubscriptionTier,
		&u.PendingSubscription, &u.PendingPeriod, &u.SubscriptionReceipt,
		&subEndDate, &resetDate,
		&u.RateHourly, &u.RateDaily, &u.RateContract, &u.CreatedAt); err != nil {
		return nil, err
	}
	if adminRole.Valid {
		u.AdminRole = adminRole.String
	}
	if subEndDate.Valid {
		u.SubscriptionEndDate = &subEndDate.Time
	}
	if resetDate.Valid {
		u.MonthlyUsageResetDate = &resetDate.Time
	}
	return u, nil
}

// RegisterUser сохраняет новую учётную запись и возвращает её UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, subscription_tier,
			      monthly_usage_reset_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role,
		user.SubscriptionTier, user.MonthlyUsageResetDate).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает учётную запись по username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает учётную запись по её UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SuspendUser блокирует учётную запись.
func (s *Storage) SuspendUser(ctx context.Context, userUID string) error {
	const op = "storage.SuspendUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET is_suspended = TRUE WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// DeleteUser удаляет учётную запись. Бронирования удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// SetPendingSubscription фиксирует запрос смены тарифа на учётной записи.
// Квитанция от предыдущего запроса сбрасывается.
func (s *Storage) SetPendingSubscription(ctx context.Context, userUID, planName, period string) error {
	const op = "storage.SetPendingSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users
		 SET pending_subscription = $1, pending_period = $2, subscription_receipt = NULL
		 WHERE uid = $3`,
		planName, period, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// SetSubscriptionReceipt сохраняет квитанцию об оплате тарифа. Квитанция
// принимается только пока на записи есть неподтверждённый запрос смены тарифа.
// Возвращает количество изменённых строк.
func (s *Storage) SetSubscriptionReceipt(ctx context.Context, userUID, receipt string) (int64, error) {
	const op = "storage.SetSubscriptionReceipt"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET subscription_receipt = $1
		 WHERE uid = $2 AND pending_subscription IS NOT NULL`,
		receipt, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ApplyPendingSubscription подтверждает запрошенный тариф: копирует
// pending_subscription в subscription_tier, очищает запрос и квитанцию
// и выставляет дату окончания подписки. Срабатывает только при наличии
// и запроса, и квитанции; иначе возвращает ноль изменённых строк.
func (s *Storage) ApplyPendingSubscription(ctx context.Context, userUID string, endDate time.Time) (int64, error) {
	const op = "storage.ApplyPendingSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users
		 SET subscription_tier = pending_subscription,
		     pending_subscription = NULL,
		     pending_period = NULL,
		     subscription_receipt = NULL,
		     subscription_end_date = $1
		 WHERE uid = $2
		   AND pending_subscription IS NOT NULL
		   AND subscription_receipt IS NOT NULL`,
		endDate, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ListPendingSubscriptions возвращает учётные записи с неподтверждёнными
// запросами смены тарифа для очереди верификации.
func (s *Storage) ListPendingSubscriptions(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListPendingSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE pending_subscription IS NOT NULL
			  ORDER BY created_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
