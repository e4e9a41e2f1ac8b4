// Package create реализует HTTP-обработчик создания бронирования.
//
// Принимает JSON с UID исполнителя, услугой, датой и способом оплаты,
// валидирует поля, извлекает UID клиента из контекста и делегирует
// создание сервису бронирований. Стоимость рассчитывается сервером
// по ставке исполнителя; клиент сумму не передаёт.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Handler отвечает за обработку запросов на создание бронирования.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания бронирования.
type Service interface {
	Create(ctx context.Context, clientUID string, req models.DummyCreateBooking) (*models.Booking, error)
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
// @Summary Создать бронирование
// @Description Создаёт бронирование услуги у исполнителя. Сумма рассчитывается по ставке исполнителя; для Escrow добавляется комиссия площадки.
// @Tags Bookings
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyCreateBooking true "Данные бронирования"
// @Success 200 {object} map[string]any "Созданное бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Превышена месячная квота"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или непригодный исполнитель"
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCreateBooking
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

	clientUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || clientUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	booking, err := h.service.Create(r.Context(), clientUID, req)
	if err != nil {
		log.Error("failed to create booking", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not create booking")))
		return
	}

	log.Info("success to create booking", slog.String("id", booking.ID))
	render.JSON(w, r, response.OKWithData(booking))
}
