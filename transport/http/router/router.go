package router

import (
	"tasklist/config"
	"tasklist/internal/handlers/auth"
	"tasklist/internal/handlers/todo"
	"tasklist/internal/handlers/user"
	"tasklist/transport/http/middleware"

	_ "tasklist/docs" // swagger spec registration

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	User user.Handler
	Auth auth.Handler
	Todo todo.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	router.Use(r.Middleware.Tracing)
	router.Use(r.Middleware.AccessLog)

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.DomainHandlers.User.Router(router)
	r.DomainHandlers.Auth.Router(router)
	r.DomainHandlers.Todo.Router(router)
}

func New(domainHandlers DomainHandlers, middleware middleware.AppMiddleware, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     middleware,
		Config:         cfg,
	}
}
