package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tasklist/config"
	"tasklist/infras/otel/mocks"
	todoMocks "tasklist/internal/domains/todo/mocks"
	"tasklist/internal/domains/todo/model"
	"tasklist/internal/domains/todo/model/dto"
	"tasklist/internal/domains/todo/service"
	"tasklist/shared/cache"
	cacheMocks "tasklist/shared/cache/mocks"
	"tasklist/shared/constant"
	gDto "tasklist/shared/dto"
	"tasklist/shared/failure"
	"tasklist/shared/optional"
)

const (
	ownerID  int64 = 1
	todoID   int64 = 10
	cacheKey       = "todo:1:10"
	staleKey       = "todo:1:10:stale"
)

var errDatabase = errors.New("database error")

type fixture struct {
	repo  *todoMocks.MockTodo
	cache *cacheMocks.MockRedisCache
	svc   service.Todo
	ctx   context.Context
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 300

	repo := todoMocks.NewMockTodo(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	return fixture{
		repo:  repo,
		cache: mockCache,
		svc:   service.New(repo, cfg, mockCache, mocks.NewOtel()),
		ctx:   context.WithValue(context.Background(), constant.ContextKeyUsername, "alice"),
	}
}

func ptr(s string) *string {
	return &s
}

func storedTodo() model.Todo {
	return model.Todo{ID: todoID, Title: "Buy milk", Description: ptr("2 litres"), Completed: false, OwnerID: ownerID}
}

func TestTodoService_GetAll(t *testing.T) {
	tests := []struct {
		name    string
		models  []model.Todo
		repoErr error
		wantLen int
		wantErr bool
	}{
		{
			name:    "owner todos",
			models:  []model.Todo{storedTodo(), {ID: 11, Title: "Walk dog", OwnerID: ownerID}},
			wantLen: 2,
		},
		{
			name:    "no todos yields empty list",
			models:  []model.Todo{},
			wantLen: 0,
		},
		{
			name:    "repository error",
			repoErr: errDatabase,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			params := gDto.QueryParams{Skip: 0, Limit: 100}

			f.repo.EXPECT().GetAll(gomock.Any(), ownerID, params).Return(tt.models, tt.repoErr)

			res, err := f.svc.GetAll(f.ctx, ownerID, params)

			if tt.wantErr {
				assert.ErrorIs(t, err, errDatabase)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, res)
			assert.Len(t, res, tt.wantLen)
		})
	}
}

func TestTodoService_Create(t *testing.T) {
	t.Run("completed always starts false", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, todo model.Todo) (model.Todo, error) {
				assert.False(t, todo.Completed)
				assert.Equal(t, ownerID, todo.OwnerID)
				assert.Equal(t, "Buy milk", todo.Title)
				assert.Nil(t, todo.Description)
				assert.Equal(t, "alice", todo.CreatedBy)
				assert.False(t, todo.CreatedAt.IsZero())

				todo.ID = todoID

				return todo, nil
			})

		res, err := f.svc.Create(f.ctx, ownerID, dto.CreateTodoRequest{Title: "Buy milk"})

		require.NoError(t, err)
		assert.Equal(t, todoID, res.ID)
		assert.False(t, res.Completed)
		assert.Equal(t, ownerID, res.OwnerID)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(model.Todo{}, errDatabase)

		_, err := f.svc.Create(f.ctx, ownerID, dto.CreateTodoRequest{Title: "Buy milk"})

		assert.ErrorIs(t, err, errDatabase)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestTodoService_Get(t *testing.T) {
	miss := fmt.Errorf("failed to get cache value: %w", cache.Nil)

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantTitle string
	}{
		{
			name: "cache hit skips the store",
			setupMock: func(f fixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), cacheKey, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*dto.TodoResponse) = dto.TodoResponse{ID: todoID, Title: "cached", OwnerID: ownerID}

						return nil
					})
			},
			wantTitle: "cached",
		},
		{
			name: "cache miss reads through and saves",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(miss)
				f.repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)
				f.cache.EXPECT().Save(gomock.Any(), cacheKey, gomock.Any(), 300).Return(nil)
				f.cache.EXPECT().Get(gomock.Any(), staleKey, gomock.Any()).Return(miss)
			},
			wantTitle: "Buy milk",
		},
		{
			name: "recent write drops the entry just cached",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(miss)
				f.repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)
				f.cache.EXPECT().Save(gomock.Any(), cacheKey, gomock.Any(), 300).Return(nil)
				f.cache.EXPECT().Get(gomock.Any(), staleKey, gomock.Any()).Return(nil)
				f.cache.EXPECT().Delete(gomock.Any(), cacheKey).Return(nil)
			},
			wantTitle: "Buy milk",
		},
		{
			name: "cache failure still serves from the store",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(errors.New("connection refused"))
				f.repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)
				f.cache.EXPECT().Save(gomock.Any(), cacheKey, gomock.Any(), 300).Return(errors.New("connection refused"))
			},
			wantTitle: "Buy milk",
		},
		{
			name: "absent for owner",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(miss)
				f.repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(model.Todo{}, false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), cacheKey, gomock.Any()).Return(miss)
				f.repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(model.Todo{}, false, errDatabase)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(f.ctx, ownerID, todoID)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, res.Title)
		})
	}
}

func TestTodoService_Replace(t *testing.T) {
	t.Run("sets title and description and never completed", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Update(gomock.Any(), todoID, ownerID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ int64, fields map[string]any) (model.Todo, bool, error) {
				assert.Equal(t, "Updated", fields[model.FieldTitle])
				assert.Contains(t, fields, model.FieldDescription)
				assert.Nil(t, fields[model.FieldDescription])
				assert.NotContains(t, fields, model.FieldCompleted)
				assert.Equal(t, "alice", fields[constant.FieldModifiedBy])

				return model.Todo{ID: todoID, Title: "Updated", Completed: true, OwnerID: ownerID}, true, nil
			})
		gomock.InOrder(
			f.cache.EXPECT().Save(gomock.Any(), staleKey, true, gomock.Any()).Return(nil),
			f.cache.EXPECT().Delete(gomock.Any(), cacheKey).Return(nil),
		)

		res, err := f.svc.Replace(f.ctx, ownerID, todoID, dto.ReplaceTodoRequest{Title: "Updated"})

		require.NoError(t, err)
		assert.Equal(t, "Updated", res.Title)
		assert.Nil(t, res.Description)
		assert.True(t, res.Completed)
	})

	t.Run("absent for owner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Update(gomock.Any(), todoID, ownerID, gomock.Any()).Return(model.Todo{}, false, nil)

		_, err := f.svc.Replace(f.ctx, ownerID, todoID, dto.ReplaceTodoRequest{Title: "Updated"})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestTodoService_Patch(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.PatchTodoRequest
		wantFields []string
		absent     []string
	}{
		{
			name:       "completed only",
			req:        dto.PatchTodoRequest{Completed: optional.Of(true)},
			wantFields: []string{model.FieldCompleted},
			absent:     []string{model.FieldTitle, model.FieldDescription},
		},
		{
			name:       "title and description",
			req:        dto.PatchTodoRequest{Title: optional.Of("New"), Description: optional.Of("")},
			wantFields: []string{model.FieldTitle, model.FieldDescription},
			absent:     []string{model.FieldCompleted},
		},
		{
			name:   "empty patch touches only audit columns",
			req:    dto.PatchTodoRequest{},
			absent: []string{model.FieldTitle, model.FieldDescription, model.FieldCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Update(gomock.Any(), todoID, ownerID, gomock.Any()).
				DoAndReturn(func(_ context.Context, _, _ int64, fields map[string]any) (model.Todo, bool, error) {
					for _, field := range tt.wantFields {
						assert.Contains(t, fields, field)
					}

					for _, field := range tt.absent {
						assert.NotContains(t, fields, field)
					}

					assert.Contains(t, fields, constant.FieldModifiedAt)

					return storedTodo(), true, nil
				})
			f.cache.EXPECT().Save(gomock.Any(), staleKey, true, gomock.Any()).Return(nil)
			f.cache.EXPECT().Delete(gomock.Any(), cacheKey).Return(nil)

			_, err := f.svc.Patch(f.ctx, ownerID, todoID, tt.req)

			require.NoError(t, err)
		})
	}

	t.Run("absent for owner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Update(gomock.Any(), todoID, ownerID, gomock.Any()).Return(model.Todo{}, false, nil)

		_, err := f.svc.Patch(f.ctx, ownerID, todoID, dto.PatchTodoRequest{Completed: optional.Of(true)})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Update(gomock.Any(), todoID, ownerID, gomock.Any()).Return(model.Todo{}, false, errDatabase)

		_, err := f.svc.Patch(f.ctx, ownerID, todoID, dto.PatchTodoRequest{Completed: optional.Of(true)})

		assert.ErrorIs(t, err, errDatabase)
	})
}

func TestTodoService_Delete(t *testing.T) {
	t.Run("returns the deleted todo and invalidates cache", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Delete(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)
		f.cache.EXPECT().Save(gomock.Any(), staleKey, true, gomock.Any()).Return(errors.New("connection refused"))
		f.cache.EXPECT().Delete(gomock.Any(), cacheKey).Return(errors.New("connection refused"))

		res, err := f.svc.Delete(f.ctx, ownerID, todoID)

		require.NoError(t, err)
		assert.Equal(t, todoID, res.ID)
		assert.Equal(t, "Buy milk", res.Title)
	})

	t.Run("absent for owner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Delete(gomock.Any(), todoID, ownerID).Return(model.Todo{}, false, nil)

		_, err := f.svc.Delete(f.ctx, ownerID, todoID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

// memoryCache keeps JSON encoded values the way the redis cache does.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Save(_ context.Context, key string, value any, _ int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = raw

	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, value any) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("failed to get cache value: %w", cache.Nil)
	}

	return json.Unmarshal(raw, value)
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)

	return nil
}

func (c *memoryCache) Clear(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}

	return nil
}

func TestTodoService_GetRacingWrites(t *testing.T) {
	newRacingService := func(t *testing.T) (*todoMocks.MockTodo, *memoryCache, service.Todo) {
		t.Helper()

		cfg := &config.Config{}
		cfg.Cache.TTL = 300

		repo := todoMocks.NewMockTodo(gomock.NewController(t))
		store := newMemoryCache()

		return repo, store, service.New(repo, cfg, store, mocks.NewOtel())
	}

	t.Run("delete during read-through leaves nothing cached", func(t *testing.T) {
		repo, store, svc := newRacingService(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "alice")

		repo.EXPECT().Delete(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)
		gomock.InOrder(
			repo.EXPECT().
				Get(gomock.Any(), todoID, ownerID).
				DoAndReturn(func(ctx context.Context, _, _ int64) (model.Todo, bool, error) {
					// the row has been read; the delete lands before the reader caches it
					_, err := svc.Delete(ctx, ownerID, todoID)
					require.NoError(t, err)

					return storedTodo(), true, nil
				}),
			repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(model.Todo{}, false, nil),
		)

		res, err := svc.Get(ctx, ownerID, todoID)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", res.Title)

		var cached dto.TodoResponse
		require.ErrorIs(t, store.Get(ctx, cacheKey, &cached), cache.Nil)

		_, err = svc.Get(ctx, ownerID, todoID)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("update during read-through serves the new row next", func(t *testing.T) {
		repo, _, svc := newRacingService(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "alice")

		updated := storedTodo()
		updated.Completed = true

		repo.EXPECT().Update(gomock.Any(), todoID, ownerID, gomock.Any()).Return(updated, true, nil)
		gomock.InOrder(
			repo.EXPECT().
				Get(gomock.Any(), todoID, ownerID).
				DoAndReturn(func(ctx context.Context, _, _ int64) (model.Todo, bool, error) {
					_, err := svc.Patch(ctx, ownerID, todoID, dto.PatchTodoRequest{Completed: optional.Of(true)})
					require.NoError(t, err)

					return storedTodo(), true, nil
				}),
			repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(updated, true, nil),
		)

		res, err := svc.Get(ctx, ownerID, todoID)
		require.NoError(t, err)
		assert.False(t, res.Completed)

		res, err = svc.Get(ctx, ownerID, todoID)
		require.NoError(t, err)
		assert.True(t, res.Completed)
	})

	t.Run("write after the entry is cached evicts it", func(t *testing.T) {
		repo, store, svc := newRacingService(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "alice")

		repo.EXPECT().Get(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)
		repo.EXPECT().Delete(gomock.Any(), todoID, ownerID).Return(storedTodo(), true, nil)

		_, err := svc.Get(ctx, ownerID, todoID)
		require.NoError(t, err)

		var cached dto.TodoResponse
		require.NoError(t, store.Get(ctx, cacheKey, &cached))

		_, err = svc.Delete(ctx, ownerID, todoID)
		require.NoError(t, err)
		require.ErrorIs(t, store.Get(ctx, cacheKey, &cached), cache.Nil)
	})
}
