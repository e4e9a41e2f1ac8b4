// Package approve реализует HTTP-обработчик подтверждения выполнения работ.
//
// Direct-бронирование завершается сразу; Escrow-бронирование требует
// подтверждённой оплаты и переводит деньги в ожидание выплаты.
package approve

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

// Handler отвечает за обработку подтверждения выполнения работ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения выполнения.
type Service interface {
	ApproveCompletion(ctx context.Context, clientUID, id string) (*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить выполнение работ
// @Description Фиксирует подтверждение клиентом выполнения работ. Direct завершается сразу, Escrow переходит к ожиданию выплаты.
// @Tags Bookings
// @Security BearerAuth
// @Produce  json
// @Param id path string true "ID бронирования"
// @Success 200 {object} map[string]any "Обновлённое бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Нелегальный переход состояния"
// @Router /bookings/{id}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.approve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	clientUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || clientUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	booking, err := h.service.ApproveCompletion(r.Context(), clientUID, id)
	if err != nil {
		log.Error("failed to approve job completion", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not approve job completion")))
		return
	}

	log.Info("success to approve job completion", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(booking))
}
