package user

import (
	"net/http"
	"tasklist/infras/otel"
	"tasklist/internal/domains/user/model/dto"
	"tasklist/internal/domains/user/service"
	"tasklist/shared/constant"
	"tasklist/shared/validator"
	"tasklist/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", handler.Register)
	})
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account. Usernames are unique.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /users/ [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req := dto.CreateUserRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("username", req.Username).Msg("failed to register user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User registered")

	response.WithJSON(w, http.StatusOK, res)
}
