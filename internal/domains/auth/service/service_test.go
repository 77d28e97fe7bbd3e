package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"tasklist/config"
	"tasklist/infras/jwt"
	jwtMocks "tasklist/infras/jwt/mocks"
	"tasklist/infras/otel/mocks"
	"tasklist/internal/domains/auth/model/dto"
	"tasklist/internal/domains/auth/service"
	userMocks "tasklist/internal/domains/user/mocks"
	userModel "tasklist/internal/domains/user/model"
	"tasklist/shared/constant"
	"tasklist/shared/failure"
	"tasklist/shared/password"
)

var errDatabase = errors.New("database error")

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Algorithm = "HS256"
	cfg.Password.BcryptCost = bcrypt.MinCost

	return cfg
}

func storedUser(t *testing.T, hasher password.Hasher) userModel.User {
	t.Helper()

	digest, err := hasher.Hash("pw1")
	require.NoError(t, err)

	return userModel.User{ID: 1, Username: "alice", HashedPassword: digest}
}

func TestAuthService_Login(t *testing.T) {
	cfg := newConfig()
	hasher := password.New(cfg)
	alice := storedUser(t, hasher)

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT)
		wantCode  int
		wantMsg   string
	}{
		{
			name: "valid credentials",
			req:  dto.LoginRequest{Username: "alice", Password: "pw1"},
			setupMock: func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), "alice").Return(alice, nil)
				tokens.EXPECT().Issue("alice", time.Duration(0)).Return("signed-token", nil)
			},
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Username: "alice", Password: "nope"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), "alice").Return(alice, nil)
			},
			wantCode: http.StatusUnauthorized,
			wantMsg:  constant.ResponseErrorLogin,
		},
		{
			name: "unknown username",
			req:  dto.LoginRequest{Username: "carol", Password: "pw1"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), "carol").Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
			wantMsg:  constant.ResponseErrorLogin,
		},
		{
			name: "store failure",
			req:  dto.LoginRequest{Username: "alice", Password: "pw1"},
			setupMock: func(repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), "alice").Return(userModel.User{}, errDatabase)
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "signing failure",
			req:  dto.LoginRequest{Username: "alice", Password: "pw1"},
			setupMock: func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), "alice").Return(alice, nil)
				tokens.EXPECT().Issue("alice", time.Duration(0)).Return("", errors.New("sign"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := userMocks.NewMockUser(ctrl)
			tokens := jwtMocks.NewMockJWT(ctrl)
			tt.setupMock(repo, tokens)

			svc := service.New(repo, cfg, hasher, mocks.NewOtel(), tokens)

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, "signed-token", res.AccessToken)
				assert.Equal(t, constant.TokenTypeBearer, res.TokenType)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	cfg := newConfig()
	hasher := password.New(cfg)
	alice := storedUser(t, hasher)

	tests := []struct {
		name      string
		token     string
		setupMock func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name:  "valid token",
			token: "good",
			setupMock: func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().Validate("good").Return("alice", nil)
				repo.EXPECT().Get(gomock.Any(), "alice").Return(alice, nil)
			},
		},
		{
			name:  "invalid token",
			token: "bad",
			setupMock: func(_ *userMocks.MockUser, tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().Validate("bad").Return("", jwt.ErrInvalidToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "subject no longer exists",
			token: "orphan",
			setupMock: func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().Validate("orphan").Return("ghost", nil)
				repo.EXPECT().Get(gomock.Any(), "ghost").Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "store failure",
			token: "good",
			setupMock: func(repo *userMocks.MockUser, tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().Validate("good").Return("alice", nil)
				repo.EXPECT().Get(gomock.Any(), "alice").Return(userModel.User{}, errDatabase)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := userMocks.NewMockUser(ctrl)
			tokens := jwtMocks.NewMockJWT(ctrl)
			tt.setupMock(repo, tokens)

			svc := service.New(repo, cfg, hasher, mocks.NewOtel(), tokens)

			user, err := svc.Authenticate(context.Background(), tt.token)

			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, alice.ID, user.ID)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, constant.ResponseErrorCredentials, err.Error())
			}
		})
	}
}

func TestAuthService_LoginTokenResolvesToUser(t *testing.T) {
	cfg := newConfig()
	hasher := password.New(cfg)
	alice := storedUser(t, hasher)

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	repo.EXPECT().Get(gomock.Any(), "alice").Return(alice, nil).Times(2)

	svc := service.New(repo, cfg, hasher, mocks.NewOtel(), jwt.New(cfg))

	res, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthService_ExpiredTokenRejected(t *testing.T) {
	cfg := newConfig()
	tokens := jwt.New(cfg)

	expired, err := tokens.Issue("alice", time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)

	svc := service.New(repo, cfg, password.New(cfg), mocks.NewOtel(), tokens)

	_, err = svc.Authenticate(context.Background(), expired)

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}
