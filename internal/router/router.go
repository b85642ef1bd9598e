package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-todo-service/internal/config"
	"go-todo-service/internal/handler"
	"go-todo-service/internal/middleware"
	"go-todo-service/internal/model"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Todo   *handler.TodoHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.Health.Check)
	r.Post("/token", h.Auth.Login)

	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(model.RoleViewer)).Get("/users/me", h.User.Me)
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(model.RoleAdmin)).Get("/admin", h.User.Admin)

	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(model.RoleViewer)).Get("/todo/{id}", h.Todo.Get)
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(model.RoleDeveloper)).Post("/todo", h.Todo.Create)
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(model.RoleDeveloper)).Put("/todo", h.Todo.Update)
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRole(model.RoleAdmin)).Delete("/todo", h.Todo.Delete)

	return r
}
