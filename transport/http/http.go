package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"tasklist/config"
	"tasklist/infras/otel"
	userService "tasklist/internal/domains/user/service"
	"tasklist/shared/constant"
	"tasklist/transport/http/response"
	"tasklist/transport/http/router"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	Users  userService.User
	Otel   otel.Otel

	state   atomic.Int32
	once    sync.Once
	handler http.Handler
	server  *http.Server
}

func New(cfg *config.Config, r router.Router, users userService.User, otel otel.Otel) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		Users:  users,
		Otel:   otel,
	}
}

// Serve bootstraps the default user, listens until SIGINT or SIGTERM and then drains.
func (h *HTTP) Serve() {
	if err := h.Users.EnsureDefaultUser(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure default user")
	}

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", h.server.Addr).Msg("Starting up HTTP server.")

		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-stop

	h.shutdown()
}

// Handler builds the routing tree once; later calls return the same handler.
func (h *HTTP) Handler() http.Handler {
	h.once.Do(func() {
		mux := chi.NewRouter()

		// chi requires every middleware to be registered before the first route
		h.Router.SetupRoutes(mux)
		mux.Get("/health", h.health)

		h.handler = mux
		h.setState(ServerStateReady)
	})

	return h.handler
}

func (h *HTTP) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.Handler().ServeHTTP(writer, request)
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setState(state ServerState) {
	h.state.Store(int32(state))
}

func (h *HTTP) health(writer http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(writer, http.StatusOK, constant.ResponseMessageHealthy)
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(writer)
	default:
		response.WithUnhealthy(writer)
	}
}

func (h *HTTP) shutdown() {
	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.setState(ServerStateInGracePeriod)

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

		log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

		h.setState(ServerStateInCleanupPeriod)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second+shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain HTTP server")
	}

	if err := h.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
