// Package approvesubscription реализует HTTP-обработчик подтверждения
// смены тарифа администратором. Роли Verification и Super; требует
// и запроса, и загруженной квитанции.
package approvesubscription

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

// Handler отвечает за обработку подтверждения смены тарифа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения тарифа.
type Service interface {
	Approve(ctx context.Context, adminRole, userUID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить смену тарифа
// @Description Применяет запрошенный тариф после проверки квитанции. Роли Verification и Super.
// @Tags Admin
// @Security BearerAuth
// @Produce  json
// @Param id path string true "UID учётной записи"
// @Success 200 {object} map[string]any "Обновлённая учётная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Нет запроса смены тарифа"
// @Failure 422 {object} response.ErrorResponse "Квитанция не загружена"
// @Router /admin/users/{id}/approve-subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.approvesubscription"

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

	user, err := h.service.Approve(r.Context(), adminRole, userUID)
	if err != nil {
		log.Error("failed to approve subscription", sl.Err(err))
		w.WriteHeader(response.CodeFor(err))
		render.JSON(w, r, response.Error(response.BusinessMessage(err, "could not approve subscription")))
		return
	}

	log.Info("success to approve subscription", sl.UID(userUID))
	render.JSON(w, r, response.OKWithData(user))
}
