package auth

import (
	"net/http"
	"tasklist/infras/otel"
	"tasklist/internal/domains/auth/model/dto"
	"tasklist/internal/domains/auth/service"
	"tasklist/shared/constant"
	"tasklist/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Post("/token", handler.Login)
}

// Login exchanges credentials for a bearer token
// @Summary Obtain an access token
// @Description OAuth2 password flow: exchange a username and password for a bearer token.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /token [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	r.Body = http.MaxBytesReader(w, r.Body, constant.RequestMaxMemory)

	req := dto.LoginRequest{}

	if err := req.FromForm(r); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to read token form")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	scope.AddEvent("Token issued")

	response.WithJSON(w, http.StatusOK, res)
}
