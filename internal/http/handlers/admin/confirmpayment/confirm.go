// Package confirmpayment реализует HTTP-обработчик подтверждения оплаты
// администратором. Доступно ролям Payment и Super; требует загруженной
// квитанции.
package confirmpayment

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

// Handler отвечает за обработку подтверждения оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	ConfirmPayment(ctx context.Context, adminRole, id string) (*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Подтверждает оплату Escrow-бронирования по загруженной квитанции. Роли Payment и Super.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param id path string true "ID бронирования"
// @Success 200 {object} map[string]any "Обновлённое бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Нелегальный переход состояния"
// @Failure 422 {object} response.ErrorResponse "Квитанция не загружена"
// @Router /admin/bookings/{id}/confirm-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.confirmpayment"

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

	booking, err := h.service.ConfirmPayment(r.Context(), adminRole, id)
	if err != nil {
		log.Error("failed to confirm payment", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not confirm payment")))
		return
	}

	log.Info("success to confirm payment", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(booking))
}
