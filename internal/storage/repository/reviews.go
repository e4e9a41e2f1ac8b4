package repository

import (
	"context"
	"fmt"

	"github.com/workbridge/marketplace-engine/internal/models"
)

// CreateReview сохраняет отзыв и помечает бронирование как оценённое
// в одной транзакции. Отметка проходит только для завершённого и ещё
// не оценённого бронирования; иначе транзакция откатывается и
// возвращается ноль изменённых строк.
func (s *Storage) CreateReview(ctx context.Context, review models.Review) (int64, error) {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET review_submitted = TRUE
		 WHERE id = $1 AND status = $2 AND review_submitted = FALSE`,
		review.BookingID, models.StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return 0, nil
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO reviews (booking_id, reviewer_uid, timeliness, thoroughness, conduct, rating)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		review.BookingID, review.ReviewerID, review.Timeliness,
		review.Thoroughness, review.Conduct, review.Rating); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
