package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"sync"
	"tasklist/config"
	"tasklist/infras/jwt"
	"tasklist/infras/otel"
	"tasklist/internal/domains/auth/model/dto"
	userModel "tasklist/internal/domains/user/model"
	userRepo "tasklist/internal/domains/user/repository"
	"tasklist/shared/constant"
	"tasklist/shared/failure"
	"tasklist/shared/password"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	// Login exchanges a username and password for a bearer token.
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	// Authenticate resolves a bearer token to the user it was issued for.
	Authenticate(ctx context.Context, token string) (userModel.User, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	hasher     password.Hasher
	otel       otel.Otel
	jwtService jwt.JWT

	dummyOnce   sync.Once
	dummyDigest string
}

func New(userRepo userRepo.User, cfg *config.Config, hasher password.Hasher, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		hasher:     hasher,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.Get(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		// keep unknown usernames as slow as wrong passwords
		s.hasher.Verify(req.Password, s.dummy())
		log.Warn().Str("username", req.Username).Msg("login attempt with unknown username")

		return res, failure.Unauthorized(constant.ResponseErrorLogin) //nolint:wrapcheck
	}

	if !s.hasher.Verify(req.Password, user.HashedPassword) {
		log.Warn().Str("username", req.Username).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(constant.ResponseErrorLogin) //nolint:wrapcheck
	}

	token, err := s.jwtService.Issue(user.Username, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")

		return res, fmt.Errorf("failed to issue token: %w", err)
	}

	res.FromToken(token)

	return res, nil
}

func (s *serviceImpl) Authenticate(ctx context.Context, token string) (user userModel.User, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Authenticate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	username, err := s.jwtService.Validate(token)
	if err != nil {
		log.Debug().Err(err).Msg("rejected bearer token")

		return user, failure.Unauthorized(constant.ResponseErrorCredentials) //nolint:wrapcheck
	}

	user, err = s.userRepo.Get(ctx, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve token subject")

		return user, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	if user.ID == 0 {
		return user, failure.Unauthorized(constant.ResponseErrorCredentials) //nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("dummy-password-for-timing")
		if err != nil {
			log.Warn().Err(err).Msg("failed to prepare dummy digest")

			return
		}

		s.dummyDigest = digest
	})

	return s.dummyDigest
}
