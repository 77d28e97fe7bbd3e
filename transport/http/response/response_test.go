package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/shared/constant"
	"tasklist/shared/failure"
	"tasklist/transport/http/response"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Error
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, map[string]int{"id": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantCode      int
		wantMessage   string
		wantChallenge bool
	}{
		{
			name:          "unauthorized carries a challenge",
			err:           failure.Unauthorized(constant.ResponseErrorCredentials),
			wantCode:      http.StatusUnauthorized,
			wantMessage:   constant.ResponseErrorCredentials,
			wantChallenge: true,
		},
		{
			name:        "not found",
			err:         failure.NotFound(constant.ResponseErrorTodoNotFound),
			wantCode:    http.StatusNotFound,
			wantMessage: constant.ResponseErrorTodoNotFound,
		},
		{
			name:        "internal details are hidden",
			err:         errors.New("pq: relation does not exist"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, rec))

			if tt.wantChallenge {
				assert.Equal(t, "Bearer", rec.Header().Get(constant.RequestHeaderWWWAuthenticate))
			} else {
				assert.Empty(t, rec.Header().Get(constant.RequestHeaderWWWAuthenticate))
			}
		})
	}
}

func TestWithPreparingShutdown(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithPreparingShutdown(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, rec.Body.String())
}
