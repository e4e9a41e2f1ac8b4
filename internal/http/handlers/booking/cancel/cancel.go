// Package cancel реализует HTTP-обработчик отмены бронирования клиентом.
//
// Отмена легальна только пока бронирование в статусе Upcoming;
// запись при этом не удаляется, а переводится в Cancelled.
package cancel

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
)

// Handler отвечает за обработку запросов отмены бронирования.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены бронирования.
type Service interface {
	Cancel(ctx context.Context, clientUID, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить бронирование
// @Description Отменяет бронирование клиента. Легально только из статуса Upcoming.
// @Tags Bookings
// @Security BearerAuth
// @Produce  json
// @Param id path string true "ID бронирования"
// @Success 200 {object} map[string]any "Бронирование отменено"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Нелегальный переход состояния"
// @Router /bookings/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.cancel"

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

	if err := h.service.Cancel(r.Context(), clientUID, id); err != nil {
		log.Error("failed to cancel booking", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not cancel booking")))
		return
	}

	log.Info("success to cancel booking", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":      id,
		"message": "booking cancelled",
	}))
}
