package dto

import (
	"net/http"
	"strings"
	"tasklist/shared/constant"
	"tasklist/shared/failure"
)

// LoginRequest carries the form fields of the token endpoint.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// FromForm reads username and password from a parsed url-encoded or multipart form.
func (r *LoginRequest) FromForm(req *http.Request) error {
	if err := req.ParseForm(); err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	r.Username = req.PostFormValue(constant.RequestParamUsername)
	r.Password = req.PostFormValue(constant.RequestParamPassword)

	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return failure.BadRequestFromString(constant.ResponseErrorMissingFormField) //nolint:wrapcheck
	}

	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (r *TokenResponse) FromToken(token string) {
	r.AccessToken = token
	r.TokenType = constant.TokenTypeBearer
}
