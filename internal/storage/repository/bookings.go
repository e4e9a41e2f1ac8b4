package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/models"
)

const bookingColumns = `id, client_uid, worker_uid, service, booking_date, amount,
			      total_amount, status, payment_status, payment_method, payment_receipt,
			      job_approved_by_client, review_submitted, created_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	if err := row.Scan(&b.ID, &b.ClientID, &b.WorkerID, &b.Service, &b.Date,
		&b.Amount, &b.TotalAmount, &b.Status, &b.PaymentStatus, &b.PaymentMethod,
		&b.PaymentReceipt, &b.JobApprovedByClient, &b.ReviewSubmitted, &b.CreatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBooking вставляет новое бронирование и возвращает его ID.
func (s *Storage) CreateBooking(ctx context.Context, b models.Booking) (string, error) {
	const op = "storage.CreateBooking"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO bookings (client_uid, worker_uid, service, booking_date,
			      amount, total_amount, status, payment_status, payment_method)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		b.ClientID, b.WorkerID, b.Service, b.Date, b.Amount, b.TotalAmount,
		b.Status, b.PaymentStatus, b.PaymentMethod).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBooking возвращает бронирование по ID.
func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListBookingsByUser возвращает бронирования, в которых учётная запись
// участвует как клиент или как исполнитель, с пагинацией.
func (s *Storage) ListBookingsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Booking, error) {
	const op = "storage.ListBookingsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingColumns + `
			  FROM bookings
			  WHERE client_uid = $1 OR worker_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	return s.listBookings(ctx, op, query, userUID, limit, offset)
}

// ListBookingsByPaymentStatus возвращает бронирования с заданным статусом
// оплаты для административных очередей и истории платежей.
func (s *Storage) ListBookingsByPaymentStatus(ctx context.Context, paymentStatus string, limit, offset int) ([]*models.Booking, error) {
	const op = "storage.ListBookingsByPaymentStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingColumns + `
			  FROM bookings
			  WHERE payment_status = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	return s.listBookings(ctx, op, query, paymentStatus, limit, offset)
}

func (s *Storage) listBookings(ctx context.Context, op, query string, args ...any) ([]*models.Booking, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelBooking переводит бронирование в Cancelled, только пока оно Upcoming.
// Статус оплаты не меняется и остаётся для аудита. Возвращает количество
// изменённых строк: ноль означает, что переход нелегален или запись ушла
// из Upcoming конкурентно.
func (s *Storage) CancelBooking(ctx context.Context, id, clientUID string) (int64, error) {
	const op = "storage.CancelBooking"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET status = $1
		 WHERE id = $2 AND client_uid = $3 AND status = $4`,
		models.StatusCancelled, id, clientUID, models.StatusUpcoming)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// CompleteDirectBooking завершает Direct-бронирование из Upcoming.
func (s *Storage) CompleteDirectBooking(ctx context.Context, id, clientUID string) (int64, error) {
	const op = "storage.CompleteDirectBooking"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET status = $1, job_approved_by_client = TRUE
		 WHERE id = $2 AND client_uid = $3 AND status = $4 AND payment_method = $5`,
		models.StatusCompleted, id, clientUID, models.StatusUpcoming, models.MethodDirect)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ApproveEscrowCompletion фиксирует подтверждение клиентом выполнения работ
// по Escrow-бронированию и продвигает оплату в Pending Payout. Легально
// только из Confirmed.
func (s *Storage) ApproveEscrowCompletion(ctx context.Context, id, clientUID string) (int64, error) {
	const op = "storage.ApproveEscrowCompletion"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings
		 SET job_approved_by_client = TRUE, payment_status = $1
		 WHERE id = $2 AND client_uid = $3 AND status = $4 AND payment_status = $5`,
		models.PaymentPendingPayout, id, clientUID, models.StatusUpcoming, models.PaymentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// StoreBookingReceipt сохраняет квитанцию и продвигает оплату из
// Pending Payment в Pending Admin Confirmation. Повторная загрузка после
// действий администратора не пройдёт по WHERE.
func (s *Storage) StoreBookingReceipt(ctx context.Context, id, clientUID, receipt string) (int64, error) {
	const op = "storage.StoreBookingReceipt"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_receipt = $1, payment_status = $2
		 WHERE id = $3 AND client_uid = $4 AND payment_status = $5`,
		receipt, models.PaymentAdminConfirmation, id, clientUID, models.PaymentPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// AdvancePaymentStatus продвигает статус оплаты из ожидаемого состояния
// в следующее. Ноль изменённых строк означает проигранную гонку или
// нелегальный переход.
func (s *Storage) AdvancePaymentStatus(ctx context.Context, id, from, to string) (int64, error) {
	const op = "storage.AdvancePaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $1
		 WHERE id = $2 AND payment_status = $3`,
		to, id, from)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// RejectPaymentReceipt возвращает оплату из Pending Admin Confirmation
// в Pending Payment и очищает квитанцию, чтобы клиент загрузил новую.
func (s *Storage) RejectPaymentReceipt(ctx context.Context, id string) (int64, error) {
	const op = "storage.RejectPaymentReceipt"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $1, payment_receipt = NULL
		 WHERE id = $2 AND payment_status = $3`,
		models.PaymentPending, id, models.PaymentAdminConfirmation)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// MarkBookingPaid отмечает выплату исполнителю и завершает бронирование.
// Легально только из Pending Payout и только после подтверждения клиентом.
func (s *Storage) MarkBookingPaid(ctx context.Context, id string) (int64, error) {
	const op = "storage.MarkBookingPaid"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $1, status = $2
		 WHERE id = $3 AND payment_status = $4 AND job_approved_by_client = TRUE`,
		models.PaymentPaid, models.StatusCompleted, id, models.PaymentPendingPayout)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
