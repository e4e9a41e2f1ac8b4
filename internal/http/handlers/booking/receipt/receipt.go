// Package receipt реализует HTTP-обработчик загрузки квитанции об оплате
// Escrow-бронирования. После загрузки оплата переходит на проверку
// администратору.
package receipt

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

// Handler отвечает за обработку загрузки квитанции об оплате.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики загрузки квитанции.
type Service interface {
	UploadReceipt(ctx context.Context, clientUID, id, receipt string) (*models.Booking, error)
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
// @Summary Загрузить квитанцию об оплате
// @Description Сохраняет квитанцию по Escrow-бронированию и передаёт оплату на проверку администратору.
// @Tags Bookings
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path string true "ID бронирования"
// @Param request body models.DummyReceipt true "Квитанция"
// @Success 200 {object} map[string]any "Обновлённое бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 409 {object} response.ErrorResponse "Нелегальный переход состояния"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /bookings/{id}/receipt [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.receipt"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReceipt
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

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

	booking, err := h.service.UploadReceipt(r.Context(), clientUID, id, req.Receipt)
	if err != nil {
		log.Error("failed to upload payment receipt", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not upload payment receipt")))
		return
	}

	log.Info("success to upload payment receipt", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(booking))
}
