// Package plans реализует HTTP-обработчик каталога тарифов.
//
// Каталог зависит от роли учётной записи: клиенты видят лимиты публикаций,
// исполнители — лимиты новых клиентов в месяц.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Handler отвечает за обработку запросов каталога тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога тарифов.
type Service interface {
	Plans(role string) []models.Plan
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает тарифные планы для роли учётной записи.
// @Tags Subscriptions
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	plans := h.service.Plans(role)

	log.Info("success to list plans", slog.String("role", role), slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData(plans))
}
