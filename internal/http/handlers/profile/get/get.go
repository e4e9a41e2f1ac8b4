// Package get реализует HTTP-обработчик профиля учётной записи.
//
// Для исполнителя профиль включает список клиентов, учтённых в квоте
// текущего расчётного месяца.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Handler отвечает за обработку запросов профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль учётной записи
// @Description Возвращает профиль. Для исполнителя включает использование месячной квоты.
// @Tags Profile
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Профиль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not get profile")))
		return
	}

	log.Info("success to get profile", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(user))
}
