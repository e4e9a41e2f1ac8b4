// Package upgrade реализует HTTP-обработчик запроса смены тарифа.
//
// Запрос лишь фиксирует желаемый план; тариф применится только после
// загрузки квитанции и подтверждения администратором.
package upgrade

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
)

// Request — входные данные запроса смены тарифа.
type Request struct {
	PlanName string `json:"planName" validate:"required,oneof=Free Standard Pro Premium"`
	Period   string `json:"period" validate:"required,oneof=monthly yearly"`
}

// Handler отвечает за обработку запросов смены тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены тарифа.
type Service interface {
	RequestUpgrade(ctx context.Context, userUID, planName, period string) error
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
// @Summary Запросить смену тарифа
// @Description Фиксирует запрос смены тарифа. Тариф применяется только после подтверждения администратором.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body Request true "Желаемый тариф и период"
// @Success 200 {object} map[string]any "Запрос зарегистрирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Неизвестный тариф для роли"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upgrade"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.RequestUpgrade(r.Context(), userUID, req.PlanName, req.Period); err != nil {
		log.Error("failed to request subscription upgrade", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not request subscription upgrade")))
		return
	}

	log.Info("success to request subscription upgrade",
		sl.UID(userUID), slog.String("plan", req.PlanName))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"planName": req.PlanName,
		"period":   req.Period,
		"message":  "subscription upgrade requested, upload a payment receipt to proceed",
	}))
}
