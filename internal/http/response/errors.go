package response

import (
	"errors"
	"net/http"

	"github.com/workbridge/marketplace-engine/internal/errs"
)

// CodeFor возвращает HTTP-статус для бизнес-ошибки сервисного слоя.
// Неопознанные ошибки считаются внутренними.
func CodeFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden), errors.Is(err, errs.ErrSuspended):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrQuotaExceeded),
		errors.Is(err, errs.ErrAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, errs.ErrMissingReceipt),
		errors.Is(err, errs.ErrIncompleteReview),
		errors.Is(err, errs.ErrInvalidBookingRequest):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// BusinessMessage возвращает сообщение для клиента по бизнес-ошибке.
// Внутренние детали наружу не отдаются.
func BusinessMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "not found"
	case errors.Is(err, errs.ErrSuspended):
		return "account is suspended"
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errors.Is(err, errs.ErrIllegalTransition):
		return "operation is not allowed in the current state"
	case errors.Is(err, errs.ErrQuotaExceeded):
		return "monthly client quota exceeded, upgrade your subscription plan"
	case errors.Is(err, errs.ErrMissingReceipt):
		return "payment receipt is required"
	case errors.Is(err, errs.ErrIncompleteReview):
		return "all three review scores are required"
	case errors.Is(err, errs.ErrAlreadyReviewed):
		return "booking is already reviewed"
	case errors.Is(err, errs.ErrInvalidBookingRequest):
		return "invalid booking request"
	default:
		return fallback
	}
}
