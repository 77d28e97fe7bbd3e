package handler

import (
	"context"
	"net/http"
	"sync"
	"tasklist/config"
	"tasklist/di"
	userService "tasklist/internal/domains/user/service"
	"tasklist/shared/logger"
	transportHttp "tasklist/transport/http"
	"tasklist/transport/http/response"

	"github.com/rs/zerolog/log"
)

var (
	once        sync.Once
	server      *transportHttp.HTTP
	defaultUser bootstrap
)

// bootstrap runs the default user setup until it succeeds once, so a cold start that hits
// an unavailable database is retried by the next invocation.
type bootstrap struct {
	mu   sync.Mutex
	done bool
}

func (b *bootstrap) ensure(ctx context.Context, users userService.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return nil
	}

	if err := users.EnsureDefaultUser(ctx); err != nil {
		return err //nolint:wrapcheck
	}

	b.done = true

	return nil
}

// Handler is the serverless entrypoint. The service graph is built on the first
// invocation and reused by warm instances.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		logger.SetOutput(cfg)

		server = di.InitializeService()
	})

	if err := defaultUser.ensure(r.Context(), server.Users); err != nil {
		log.Error().Err(err).Msg("Failed to ensure default user")
		response.WithUnhealthy(w)

		return
	}

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
