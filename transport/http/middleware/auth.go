package middleware

import (
	"context"
	"net/http"
	"tasklist/infras/jwt"
	"tasklist/infras/otel"
	authService "tasklist/internal/domains/auth/service"
	"tasklist/shared/constant"
	"tasklist/shared/failure"
	"tasklist/transport/http/response"

	"github.com/rs/zerolog/log"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	auth authService.Auth
	otel otel.Otel
}

// NewAuthMiddleware creates a new middleware instance
func NewAuthMiddleware(auth authService.Auth, otel otel.Otel) Auth {
	return &authImpl{
		auth: auth,
		otel: otel,
	}
}

// Auth resolves the bearer token to a user and stores its id and username in the request
// context. Every token problem yields the same 401 with a bearer challenge.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.method":     request.Method,
		})

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			log.Debug().Err(err).Msg("rejected authorization header")

			err := failure.Unauthorized(constant.ResponseErrorCredentials)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		user, err := m.auth.Authenticate(ctx, tokenString)
		if err != nil {
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		scope.SetAttribute("user.id", user.ID)
		scope.End()

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, user.ID)
		ctx = context.WithValue(ctx, constant.ContextKeyUsername, user.Username)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
