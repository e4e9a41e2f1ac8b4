package models

import "time"

// Review представляет отзыв клиента о выполненном бронировании.
// Rating — среднее арифметическое трёх оценок, округлённое до одного
// знака после запятой.
type Review struct {
	ID           int       `json:"id"`
	BookingID    string    `json:"bookingId"`
	ReviewerID   string    `json:"reviewerId"`
	Timeliness   int       `json:"timeliness"`
	Thoroughness int       `json:"thoroughness"`
	Conduct      int       `json:"conduct"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DummyReview используется для приёма оценок из JSON-запроса.
// Все три оценки обязательны, диапазон 1..5.
type DummyReview struct {
	Timeliness   int `json:"timeliness" validate:"required,min=1,max=5"`
	Thoroughness int `json:"thoroughness" validate:"required,min=1,max=5"`
	Conduct      int `json:"conduct" validate:"required,min=1,max=5"`
}
