//go:build wireinject
// +build wireinject

package di

import (
	"tasklist/config"
	"tasklist/infras/jwt"
	"tasklist/infras/otel"
	"tasklist/infras/postgres"
	"tasklist/infras/redis"
	authHandler "tasklist/internal/handlers/auth"
	todoHandler "tasklist/internal/handlers/todo"
	userHandler "tasklist/internal/handlers/user"
	"tasklist/shared/cache"
	"tasklist/shared/password"
	"tasklist/transport/http"
	"tasklist/transport/http/middleware"
	"tasklist/transport/http/router"

	todoRepository "tasklist/internal/domains/todo/repository"
	todoService "tasklist/internal/domains/todo/service"

	"github.com/google/wire"

	authService "tasklist/internal/domains/auth/service"
	userRepository "tasklist/internal/domains/user/repository"
	userService "tasklist/internal/domains/user/service"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	password.New,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	todoDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	userHandler.New,
	authHandler.New,
	todoHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
