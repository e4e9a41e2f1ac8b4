package marketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/workbridge/marketplace-engine/docs"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/approvesubscription"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/confirmpayment"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/deleteuser"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/markpaid"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/paymentlist"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/rejectpayment"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/suspenduser"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/admin/verificationqueue"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/auth/login"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/auth/register"
	bookingapprove "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/approve"
	bookingcancel "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/cancel"
	bookingcreate "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/create"
	bookinglist "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/list"
	bookingread "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/read"
	bookingreceipt "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/receipt"
	bookingreview "github.com/workbridge/marketplace-engine/internal/http/handlers/booking/review"
	"github.com/workbridge/marketplace-engine/internal/http/handlers/health"
	profileget "github.com/workbridge/marketplace-engine/internal/http/handlers/profile/get"
	subplans "github.com/workbridge/marketplace-engine/internal/http/handlers/subscription/plans"
	subreceipt "github.com/workbridge/marketplace-engine/internal/http/handlers/subscription/receipt"
	subupgrade "github.com/workbridge/marketplace-engine/internal/http/handlers/subscription/upgrade"
	"github.com/workbridge/marketplace-engine/internal/http/middlewarectx"
	accountservice "github.com/workbridge/marketplace-engine/internal/services/account"
	authservice "github.com/workbridge/marketplace-engine/internal/services/auth"
	bookingservice "github.com/workbridge/marketplace-engine/internal/services/booking"
	paymentservice "github.com/workbridge/marketplace-engine/internal/services/payment"
	subservice "github.com/workbridge/marketplace-engine/internal/services/subscription"
	"github.com/workbridge/marketplace-engine/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.Service, accountService *accountservice.Service,
	bookingService *bookingservice.Service, paymentService *paymentservice.Service,
	subscriptionService *subservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.SuspendedGuardMiddleware(logger, db))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/bookings", bookingcreate.New(logger, bookingService).ServeHTTP)
			r.Get("/bookings/list", bookinglist.New(logger, bookingService).ServeHTTP)
			r.Get("/bookings/{id}", bookingread.New(logger, bookingService).ServeHTTP)
			r.Post("/bookings/{id}/cancel", bookingcancel.New(logger, bookingService).ServeHTTP)
			r.Post("/bookings/{id}/approve", bookingapprove.New(logger, bookingService).ServeHTTP)
			r.Post("/bookings/{id}/review", bookingreview.New(logger, bookingService).ServeHTTP)
			r.Post("/bookings/{id}/receipt", bookingreceipt.New(logger, paymentService).ServeHTTP)
			r.Get("/plans", subplans.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/upgrade", subupgrade.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/receipt", subreceipt.New(logger, subscriptionService).ServeHTTP)
			r.Get("/profile", profileget.New(logger, accountService).ServeHTTP)
		})

		// Административная группа
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.AdminMiddleware(logger, db))
			r.Post("/admin/bookings/{id}/confirm-payment", confirmpayment.New(logger, paymentService).ServeHTTP)
			r.Post("/admin/bookings/{id}/reject-payment", rejectpayment.New(logger, paymentService).ServeHTTP)
			r.Post("/admin/bookings/{id}/mark-paid", markpaid.New(logger, paymentService).ServeHTTP)
			r.Get("/admin/payments/list", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Get("/admin/subscriptions/list", verificationqueue.New(logger, subscriptionService).ServeHTTP)
			r.Post("/admin/users/{id}/approve-subscription", approvesubscription.New(logger, subscriptionService).ServeHTTP)
			r.Post("/admin/users/{id}/suspend", suspenduser.New(logger, accountService).ServeHTTP)
			r.Delete("/admin/users/{id}", deleteuser.New(logger, accountService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
