// Package paymentlist реализует HTTP-обработчик истории платежей
// для административных очередей. Роли Payment и Super.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Handler отвечает за обработку запросов истории платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории платежей.
type Service interface {
	ListByPaymentStatus(ctx context.Context, adminRole, paymentStatus string, limit, offset int) ([]*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История платежей
// @Description Возвращает бронирования с заданным статусом оплаты. Роли Payment и Super.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param status query string false "Статус оплаты (по умолчанию Pending Admin Confirmation)"
// @Param limit query int false "Максимум записей (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список бронирований"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/payments/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.paymentlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adminRole, _ := r.Context().Value(middlewarectx.AdminRole).(string)

	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.PaymentAdminConfirmation
	}
	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	bookings, err := h.service.ListByPaymentStatus(r.Context(), adminRole, status, limit, offset)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not list payments")))
		return
	}

	log.Info("success to list payments", slog.String("status", status), slog.Int("count", len(bookings)))
	render.JSON(w, r, response.OKWithData(bookings))
}
