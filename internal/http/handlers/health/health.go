// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
)

// Checker описывает проверку готовности хранилища.
type Checker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler отвечает за обработку health-check запросов.
type Handler struct {
	log     *slog.Logger
	checker Checker
}

// New создает новый Handler.
func New(log *slog.Logger, checker Checker) *Handler {
	return &Handler{log: log, checker: checker}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.checker.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
