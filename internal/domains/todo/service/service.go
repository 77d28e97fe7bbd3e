package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"tasklist/config"
	"tasklist/infras/otel"
	"tasklist/internal/domains/todo/model/dto"
	"tasklist/internal/domains/todo/repository"
	"tasklist/shared"
	"tasklist/shared/cache"
	"tasklist/shared/constant"
	gDto "tasklist/shared/dto"
	"tasklist/shared/failure"

	"github.com/rs/zerolog/log"
)

// Todo is the todo use case layer. Every operation is scoped to ownerID, the id of the
// authenticated user.
type Todo interface {
	GetAll(ctx context.Context, ownerID int64, params gDto.QueryParams) ([]dto.TodoResponse, error)
	Create(ctx context.Context, ownerID int64, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	Get(ctx context.Context, ownerID, id int64) (dto.TodoResponse, error)
	Replace(ctx context.Context, ownerID, id int64, req dto.ReplaceTodoRequest) (dto.TodoResponse, error)
	Patch(ctx context.Context, ownerID, id int64, req dto.PatchTodoRequest) (dto.TodoResponse, error)
	Delete(ctx context.Context, ownerID, id int64) (dto.TodoResponse, error)
}

type serviceImpl struct {
	repo  repository.Todo
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Todo, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Todo {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// staleMarkerTTL must outlive any in-flight read-through between its store read and its cache write.
const staleMarkerTTL = 30

func cacheKey(ownerID, id int64) string {
	return shared.BuildCacheKey(constant.CacheKeyTodo, shared.FormatID(ownerID), shared.FormatID(id))
}

// staleKey marks a todo as recently written so that a concurrent read-through drops what it cached.
func staleKey(ownerID, id int64) string {
	return shared.BuildCacheKey(constant.CacheKeyTodo, shared.FormatID(ownerID), shared.FormatID(id), constant.CacheKeyStale)
}

func username(ctx context.Context) string {
	user, _ := ctx.Value(constant.ContextKeyUsername).(string)

	return user
}

func (s *serviceImpl) GetAll(ctx context.Context, ownerID int64, params gDto.QueryParams) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx, ownerID, params)
	if err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to get todos")

		return nil, fmt.Errorf("failed to get todos: %w", err)
	}

	return dto.FromModels(models), nil
}

func (s *serviceImpl) Create(ctx context.Context, ownerID int64, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.repo.Insert(ctx, req.ToModel(ownerID, username(ctx)))
	if err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, ownerID, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := cacheKey(ownerID, id)

	err = s.cache.Get(ctx, key, &res)
	if err == nil {
		return res, nil
	}

	if !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("failed to read todo from cache")
	}

	res = dto.TodoResponse{}

	todo, found, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get todo")

		return res, fmt.Errorf("failed to get todo: %w", err)
	}

	if !found {
		return res, failure.NotFound(constant.ResponseErrorTodoNotFound) //nolint:wrapcheck
	}

	res.FromModel(todo)

	if cacheErr := s.cache.Save(ctx, key, res, s.cfg.Cache.TTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Str("key", key).Msg("failed to cache todo")

		return res, nil
	}

	s.dropIfStale(ctx, ownerID, id)

	return res, nil
}

// dropIfStale removes the entry just cached by Get when an update or delete raced with it.
func (s *serviceImpl) dropIfStale(ctx context.Context, ownerID, id int64) {
	var stale bool

	err := s.cache.Get(ctx, staleKey(ownerID, id), &stale)
	if errors.Is(err, cache.Nil) {
		return
	}

	key := cacheKey(ownerID, id)

	if delErr := s.cache.Delete(ctx, key); delErr != nil {
		log.Warn().Err(delErr).Str("key", key).Msg("failed to drop stale todo from cache")
	}
}

func (s *serviceImpl) Replace(ctx context.Context, ownerID, id int64, req dto.ReplaceTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Replace")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.update(ctx, ownerID, id, shared.TransformFields(req, username(ctx)))
}

func (s *serviceImpl) Patch(ctx context.Context, ownerID, id int64, req dto.PatchTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Patch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.update(ctx, ownerID, id, shared.TransformFields(req, username(ctx)))
}

func (s *serviceImpl) update(ctx context.Context, ownerID, id int64, fields map[string]any) (res dto.TodoResponse, err error) {
	todo, found, err := s.repo.Update(ctx, id, ownerID, fields)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	if !found {
		return res, failure.NotFound(constant.ResponseErrorTodoNotFound) //nolint:wrapcheck
	}

	s.invalidate(ctx, ownerID, id)
	res.FromModel(todo)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, ownerID, id int64) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, found, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete todo")

		return res, fmt.Errorf("failed to delete todo: %w", err)
	}

	if !found {
		return res, failure.NotFound(constant.ResponseErrorTodoNotFound) //nolint:wrapcheck
	}

	s.invalidate(ctx, ownerID, id)
	res.FromModel(todo)

	return res, nil
}

// invalidate marks the todo stale before evicting it, so a read-through that fetched the old row
// before this write cannot leave it cached.
func (s *serviceImpl) invalidate(ctx context.Context, ownerID, id int64) {
	marker := staleKey(ownerID, id)
	if err := s.cache.Save(ctx, marker, true, staleMarkerTTL); err != nil {
		log.Warn().Err(err).Str("key", marker).Msg("failed to mark todo cache stale")
	}

	key := cacheKey(ownerID, id)

	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to invalidate todo cache")
	}
}
