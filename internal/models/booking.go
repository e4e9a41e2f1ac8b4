package models

import "time"

// Статусы выполнения работ.
const (
	StatusUpcoming  = "Upcoming"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Статусы оплаты. Для Escrow-бронирований статусы продвигаются строго
// в порядке объявления; PaymentNotApplicable используется для Direct.
const (
	PaymentPending           = "Pending Payment"
	PaymentAdminConfirmation = "Pending Admin Confirmation"
	PaymentConfirmed         = "Confirmed"
	PaymentPendingPayout     = "Pending Payout"
	PaymentPaid              = "Paid"
	PaymentNotApplicable     = "Not Applicable"
)

// Способы оплаты. Фиксируются при создании бронирования и не меняются.
const (
	MethodDirect = "Direct"
	MethodEscrow = "Escrow"
)

// Booking представляет единичное взаимодействие клиента и исполнителя.
// Ось выполнения работ (Status) и ось движения денег (PaymentStatus)
// отслеживаются независимо. Бронирования никогда не удаляются: отмена
// и завершение — терминальные состояния, а не удаление записи.
type Booking struct {
	ID       string    `json:"id"`
	ClientID string    `json:"clientId"`
	WorkerID string    `json:"workerId"`
	Service  string    `json:"service"`
	Date     time.Time `json:"date"`

	// Amount — базовая ставка исполнителя, фиксируется при создании.
	// TotalAmount — Amount плюс комиссия платформы при оплате через Escrow.
	Amount      int64 `json:"amount"`
	TotalAmount int64 `json:"totalAmount"`

	Status         string  `json:"status"`
	PaymentStatus  string  `json:"paymentStatus"`
	PaymentMethod  string  `json:"paymentMethod"`
	PaymentReceipt *string `json:"paymentReceipt,omitempty"`

	JobApprovedByClient bool `json:"jobApprovedByClient"`
	ReviewSubmitted     bool `json:"reviewSubmitted"`

	CreatedAt time.Time `json:"createdAt"`
}

// DummyCreateBooking используется для приёма данных нового бронирования
// из JSON-запроса до их валидации.
type DummyCreateBooking struct {
	WorkerID      string `json:"workerId" validate:"required,uuid"`
	Service       string `json:"service" validate:"required"`
	Date          string `json:"date" validate:"required"` // формат 02-01-2006
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=Direct Escrow"`
}

// DummyReceipt используется для приёма квитанции об оплате из JSON-запроса.
type DummyReceipt struct {
	Receipt string `json:"receipt" validate:"required"`
}
