// Package review реализует HTTP-обработчик отзыва о выполненном бронировании.
//
// Все три оценки обязательны; повторный отзыв по одному бронированию невозможен.
package review

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Handler отвечает за обработку запросов создания отзыва.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отзывов.
type Service interface {
	SubmitReview(ctx context.Context, reviewerUID, id string, req models.DummyReview) (*models.Review, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оставить отзыв
// @Description Сохраняет отзыв по завершённому бронированию. Требуются все три оценки 1..5.
// @Tags Bookings
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path string true "ID бронирования"
// @Param request body models.DummyReview true "Оценки отзыва"
// @Success 200 {object} map[string]any "Сохранённый отзыв"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 409 {object} response.ErrorResponse "Отзыв уже оставлен или бронирование не завершено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неполные оценки"
// @Router /bookings/{id}/review [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.review"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReview
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	reviewerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || reviewerUID == "" {
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

	rev, err := h.service.SubmitReview(r.Context(), reviewerUID, id, req)
	if err != nil {
		log.Error("failed to submit review", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not submit review")))
		return
	}

	log.Info("success to submit review", slog.String("booking_id", id),
		slog.Float64("rating", rev.Rating))
	render.JSON(w, r, response.OKWithData(rev))
}
