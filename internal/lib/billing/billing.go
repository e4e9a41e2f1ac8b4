// Package billing содержит календарную арифметику расчётных периодов:
// границы месячного сброса квоты и окончание оплаченного периода подписки.
package billing

import (
	"time"

	"github.com/workbridge/marketplace-engine/internal/models"
)

// NextResetDate возвращает ближайшую будущую дату сброса квоты,
// продвигая resetDate календарными месяцами, пока она не окажется позже now.
// Ленивых сбросов может накопиться несколько, если исполнитель долго
// не получал новых бронирований.
func NextResetDate(resetDate, now time.Time) time.Time {
	next := resetDate
	for !next.After(now) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// ResetDue сообщает, наступила ли дата сброса квоты.
func ResetDue(resetDate, now time.Time) bool {
	return !now.Before(resetDate)
}

// SubscriptionEnd возвращает дату окончания подписки: один расчётный период
// от момента подтверждения. Период monthly — календарный месяц, yearly — год.
func SubscriptionEnd(confirmedAt time.Time, period string) time.Time {
	if period == models.PeriodYearly {
		return confirmedAt.AddDate(1, 0, 0)
	}
	return confirmedAt.AddDate(0, 1, 0)
}
