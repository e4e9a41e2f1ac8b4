// Package receipt реализует HTTP-обработчик загрузки квитанции об оплате
// тарифа. Легально только при наличии неподтверждённого запроса смены тарифа.
package receipt

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

// Handler отвечает за обработку загрузки квитанции об оплате тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики загрузки квитанции.
type Service interface {
	UploadReceipt(ctx context.Context, userUID, receipt string) error
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
// @Summary Загрузить квитанцию об оплате тарифа
// @Description Сохраняет квитанцию по запрошенной смене тарифа для проверки администратором.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyReceipt true "Квитанция"
// @Success 200 {object} map[string]any "Квитанция сохранена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Нет неподтверждённого запроса смены тарифа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions/receipt [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.receipt"

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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.UploadReceipt(r.Context(), userUID, req.Receipt); err != nil {
		log.Error("failed to upload subscription receipt", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not upload subscription receipt")))
		return
	}

	log.Info("success to upload subscription receipt", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "receipt uploaded, awaiting admin confirmation",
	}))
}
