package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"tasklist/config"
	"tasklist/infras/otel"
	"tasklist/internal/domains/user/model"
	"tasklist/internal/domains/user/model/dto"
	"tasklist/internal/domains/user/repository"
	"tasklist/shared/constant"
	"tasklist/shared/failure"
	"tasklist/shared/password"
	gRepo "tasklist/shared/repository"
	"tasklist/shared/validator"

	"github.com/rs/zerolog/log"
)

type User interface {
	Register(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	// EnsureDefaultUser creates the configured bootstrap account unless it already exists.
	EnsureDefaultUser(ctx context.Context) error
}

type serviceImpl struct {
	repo   repository.User
	cfg    *config.Config
	hasher password.Hasher
	otel   otel.Otel
}

func New(repo repository.User, cfg *config.Config, hasher password.Hasher, otel otel.Otel) User {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		hasher: hasher,
		otel:   otel,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.repo.Exist(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.Conflict(constant.ResponseErrorUsernameTaken) //nolint:wrapcheck
	}

	user, err := s.create(ctx, req, req.Username)
	if errors.Is(err, gRepo.ErrUniqueViolation) {
		return res, failure.Conflict(constant.ResponseErrorUsernameTaken) //nolint:wrapcheck
	}

	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) EnsureDefaultUser(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureDefaultUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	username := s.cfg.App.DefaultUserUsername
	if username == "" {
		log.Warn().Msg("No default user configured, skipping bootstrap")

		return nil
	}

	req := dto.CreateUserRequest{Username: username, Password: s.cfg.App.DefaultUserPassword}

	err = validateDefaultUser(req)
	if err != nil {
		return err
	}

	exists, err := s.repo.Exist(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check default user: %w", err)
	}

	if exists {
		log.Debug().Str("username", username).Msg("Default user already present")

		return nil
	}

	_, err = s.create(ctx, req, constant.ContextSystem)
	if errors.Is(err, gRepo.ErrUniqueViolation) {
		// another instance bootstrapped it first
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to create default user: %w", err)
	}

	log.Info().Str("username", username).Msg("Default user created")

	return nil
}

// validateDefaultUser applies the registration rules to the configured account, naming the
// offending setting.
func validateDefaultUser(req dto.CreateUserRequest) error {
	if err := validator.ValidateVar(req.Username, dto.UsernameRules); err != nil {
		return fmt.Errorf("invalid default user: %s%w", constant.EnvDefaultUserUsername, err)
	}

	if err := validator.ValidateVar(req.Password, dto.PasswordRules); err != nil {
		return fmt.Errorf("invalid default user: %s%w", constant.EnvDefaultUserPassword, err)
	}

	return nil
}

func (s *serviceImpl) create(ctx context.Context, req dto.CreateUserRequest, createdBy string) (user model.User, err error) {
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return user, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err = s.repo.Insert(ctx, req.ToModel(createdBy, hashedPassword))
	if err != nil {
		if !errors.Is(err, gRepo.ErrUniqueViolation) {
			log.Error().Err(err).Msg("failed to create user")
		}

		return user, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
