// Package errs определяет ошибки бизнес-правил движка бронирований.
// Все ошибки ниже возвращаются синхронно вызывающей стороне и никогда
// не повторяются автоматически; при любой из них состояние в хранилище
// остаётся неизменным.
package errs

import "errors"

var (
	// ErrIllegalTransition операция вызвана из состояния, которое её не допускает.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrForbidden роль администратора не даёт права на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded исчерпан месячный лимит новых клиентов исполнителя.
	ErrQuotaExceeded = errors.New("monthly client quota exceeded")
	// ErrMissingReceipt обязательная квитанция не загружена.
	ErrMissingReceipt = errors.New("missing receipt")
	// ErrIncompleteReview отсутствует одна из трёх обязательных оценок.
	ErrIncompleteReview = errors.New("incomplete review")
	// ErrAlreadyReviewed отзыв по бронированию уже оставлен.
	ErrAlreadyReviewed = errors.New("already reviewed")
	// ErrInvalidBookingRequest у исполнителя не настроена ни одна ставка.
	ErrInvalidBookingRequest = errors.New("invalid booking request")
	// ErrSuspended учётная запись заблокирована и не может действовать.
	ErrSuspended = errors.New("account is suspended")
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
)
