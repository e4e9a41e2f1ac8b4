package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/workbridge/marketplace-engine/internal/http/response"
	"github.com/workbridge/marketplace-engine/internal/lib/sl"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// UserProvider описывает интерфейс загрузки учётной записи по UID.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SuspendedGuardMiddleware создает middleware, отклоняющее запросы
// заблокированных учётных записей. Блокировка действует немедленно,
// даже если JWT был выдан до неё.
func SuspendedGuardMiddleware(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			model, err := users.GetUser(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if model.IsSuspended {
				log.Error("account suspended, access denied", sl.UID(userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("account is suspended"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminMiddleware создает middleware, пропускающее только администраторов.
// Административная роль учётной записи кладётся в контекст запроса; её
// достаточность проверяет уже сервисный слой по конкретной операции.
func AdminMiddleware(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			model, err := users.GetUser(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if model.IsSuspended || !model.IsAdmin {
				log.Error("admin access denied", sl.UID(userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), AdminRole, model.AdminRole)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
