// Package deleteuser реализует HTTP-обработчик удаления учётной записи.
// Роли Support и Super. Бронирования при этом сохраняются для аудита.
package deleteuser

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

// Handler отвечает за обработку удаления учётных записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления.
type Service interface {
	Delete(ctx context.Context, adminRole, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить учётную запись
// @Description Удаляет учётную запись. Роли Support и Super.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param id path string true "UID учётной записи"
// @Success 200 {object} map[string]any "Учётная запись удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Router /admin/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.deleteuser"

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

	if err := h.service.Delete(r.Context(), adminRole, userUID); err != nil {
		log.Error("failed to delete user", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not delete user")))
		return
	}

	log.Info("success to delete user", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":      userUID,
		"message": "user deleted",
	}))
}
