// Package models содержит доменные структуры движка бронирований:
// учётные записи, бронирования, тарифные планы и отзывы. Имена полей
// и строковые значения перечислений являются контрактом внешнего API
// и сохраняются дословно.
package models

import "time"

// Роли учётных записей.
const (
	RoleClient = "client"
	RoleWorker = "worker"
)

// Роли администраторов.
const (
	AdminRoleSuper        = "Super"
	AdminRoleSupport      = "Support"
	AdminRoleVerification = "Verification"
	AdminRolePayment      = "Payment"
)

// User представляет учётную запись клиента, исполнителя или администратора.
// Денежные поля хранятся в минимальных единицах валюты.
type User struct {
	UID          string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsAdmin      bool   `json:"isAdmin"`
	AdminRole    string `json:"adminRole,omitempty"`
	IsSuspended  bool   `json:"isSuspended"`

	SubscriptionTier    string     `json:"subscriptionTier"`
	PendingSubscription *string    `json:"pendingSubscription,omitempty"`
	PendingPeriod       *string    `json:"pendingPeriod,omitempty"`
	SubscriptionReceipt *string    `json:"subscriptionReceipt,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`

	// Квота исполнителя: клиенты, впервые обслуженные в текущем расчётном
	// месяце, и дата следующего сброса счётчика.
	MonthlyNewClientsIDs  []string   `json:"monthlyNewClientsIds,omitempty"`
	MonthlyUsageResetDate *time.Time `json:"monthlyUsageResetDate,omitempty"`

	// Ставки исполнителя. Приоритет при расчёте стоимости:
	// почасовая, затем дневная, затем за контракт.
	RateHourly   *int64 `json:"rateHourly,omitempty"`
	RateDaily    *int64 `json:"rateDaily,omitempty"`
	RateContract *int64 `json:"rateContract,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// DummyRegisterUser используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterUser struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=client worker"`
}

// DummyLoginUser используется для приёма данных входа из JSON-запроса.
type DummyLoginUser struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}
