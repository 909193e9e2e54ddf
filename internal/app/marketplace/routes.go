// Package marketplace предоставляет маршруты для основного приложения.
package marketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/profileread"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/profileupdate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/content/contentread"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/content/contentupdate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/coursecreate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/courselist"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/courseread"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/courseremove"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/courseupdate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/order/ordercreate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/order/orderlist"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/order/ordermy"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/order/orderread"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/order/orderupdate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/settings/settingsread"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/settings/settingsupdate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/user/usercreate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/user/userlist"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/user/userread"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/user/userremove"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/user/userupdate"
	"github.com/magabrotheeeer/course-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	authservice "github.com/magabrotheeeer/course-marketplace/internal/services/auth"
	contentservice "github.com/magabrotheeeer/course-marketplace/internal/services/content"
	courseservice "github.com/magabrotheeeer/course-marketplace/internal/services/course"
	orderservice "github.com/magabrotheeeer/course-marketplace/internal/services/order"
	settingsservice "github.com/magabrotheeeer/course-marketplace/internal/services/settings"
	userservice "github.com/magabrotheeeer/course-marketplace/internal/services/user"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, storage *repository.Storage,
	authService *authservice.Service, orderService *orderservice.Service,
	courseService *courseservice.Service, contentService *contentservice.Service,
	userService *userservice.Service, settingsService *settingsservice.Service) {
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
		r.Get("/courses", courselist.New(logger, courseService).ServeHTTP)
		r.Get("/courses/{id}", courseread.New(logger, courseService).ServeHTTP)
		// Материалы курса доступны без входа, но вошедший пользователь
		// с правом доступа получает их без превью-ограничений.
		r.With(middlewarectx.OptionalJWTMiddleware(authService, logger)).
			Get("/content/{courseId}", contentread.New(logger, contentService).ServeHTTP)
		r.Get("/site-config", settingsread.New(logger, settingsService, models.DocSiteConfig).ServeHTTP)
		r.Get("/settings", settingsread.New(logger, settingsService, models.DocSettings).ServeHTTP)
		r.Get("/health", health.New(logger, storage).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/me", profileread.New(logger, authService).ServeHTTP)
			r.Put("/auth/me", profileupdate.New(logger, authService).ServeHTTP)

			r.Post("/orders", ordercreate.New(logger, orderService).ServeHTTP)
			r.Get("/orders/my/purchases", ordermy.New(logger, orderService).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, orderService).ServeHTTP)

			// Управление каталогом: admin и instructor
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleInstructor))
				r.Post("/courses", coursecreate.New(logger, courseService).ServeHTTP)
				r.Put("/courses/{id}", courseupdate.New(logger, courseService).ServeHTTP)
				r.Delete("/courses/{id}", courseremove.New(logger, courseService).ServeHTTP)
				r.Put("/content/{courseId}", contentupdate.New(logger, contentService).ServeHTTP)
			})

			// Админка: заказы, пользователи и настройки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)
				r.Put("/orders/{id}", orderupdate.New(logger, orderService).ServeHTTP)

				r.Get("/users", userlist.New(logger, userService).ServeHTTP)
				r.Post("/users", usercreate.New(logger, userService).ServeHTTP)
				r.Get("/users/{id}", userread.New(logger, userService).ServeHTTP)
				r.Put("/users/{id}", userupdate.New(logger, userService).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, userService).ServeHTTP)

				r.Put("/settings", settingsupdate.New(logger, settingsService, models.DocSettings).ServeHTTP)
				r.Put("/site-config", settingsupdate.New(logger, settingsService, models.DocSiteConfig).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
