// Package rejectpayment реализует HTTP-обработчик отклонения квитанции
// администратором. Оплата возвращается в начальное состояние, клиент
// может загрузить новую квитанцию. Роли Payment и Super.
package rejectpayment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Handler отвечает за обработку отклонения квитанции.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отклонения квитанции.
type Service interface {
	RejectPayment(ctx context.Context, adminRole, id string) (*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отклонить квитанцию
// @Description Отклоняет загруженную квитанцию; оплата возвращается в ожидание. Роли Payment и Super.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param id path string true "ID бронирования"
// @Success 200 {object} map[string]any "Обновлённое бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Нелегальный переход состояния"
// @Router /admin/bookings/{id}/reject-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.rejectpayment"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adminRole, _ := r.Context().Value(middlewarectx.AdminRole).(string)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	booking, err := h.service.RejectPayment(r.Context(), adminRole, id)
	if err != nil {
		log.Error("failed to reject payment receipt", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not reject payment receipt")))
		return
	}

	log.Info("success to reject payment receipt", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(booking))
}
