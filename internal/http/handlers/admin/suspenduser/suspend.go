// Package suspenduser реализует HTTP-обработчик блокировки учётной записи.
// Роли Support и Super. Блокировка действует немедленно на все маршруты.
package suspenduser

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

// Handler отвечает за обработку блокировки учётных записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики блокировки.
type Service interface {
	Suspend(ctx context.Context, adminRole, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заблокировать учётную запись
// @Description Блокирует учётную запись: она не может ни аутентифицироваться, ни действовать. Роли Support и Super.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param id path string true "UID учётной записи"
// @Success 200 {object} map[string]any "Учётная запись заблокирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Router /admin/users/{id}/suspend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.suspenduser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adminRole, _ := r.Context().Value(middlewarectx.AdminRole).(string)

	userUID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userUID); err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Suspend(r.Context(), adminRole, userUID); err != nil {
		log.Error("failed to suspend user", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not suspend user")))
		return
	}

	log.Info("success to suspend user", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":      userUID,
		"message": "user suspended",
	}))
}
