package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tasklist/infras/otel"
	"tasklist/infras/postgres"
	"tasklist/internal/domains/todo/model"
	"tasklist/shared"
	gDto "tasklist/shared/dto"
	gRepo "tasklist/shared/repository"
)

// Todo is the owner-scoped todo store. Lookups and mutations take the todo id and the
// owner id together; a todo of another owner is indistinguishable from a missing one.
type Todo interface {
	Insert(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetAll(ctx context.Context, ownerID int64, params gDto.QueryParams) ([]model.Todo, error)
	Get(ctx context.Context, id, ownerID int64) (model.Todo, bool, error)
	Update(ctx context.Context, id, ownerID int64, fields map[string]any) (model.Todo, bool, error)
	Delete(ctx context.Context, id, ownerID int64) (model.Todo, bool, error)
}

type repositoryImpl struct {
	repo gRepo.Repository[model.Todo]
}

func New(db *postgres.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		repo: gRepo.NewRepository[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func ownedBy(id, ownerID int64) gDto.FilterGroup {
	return shared.FilterByOwner(id, ownerID, model.FieldID, model.FieldOwnerID, model.TableName)
}

func (r *repositoryImpl) Insert(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return r.repo.Insert(ctx, todo) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAll(ctx context.Context, ownerID int64, params gDto.QueryParams) ([]model.Todo, error) {
	return r.repo.GetAll(ctx, params, shared.FilterByField(ownerID, model.FieldOwnerID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) Get(ctx context.Context, id, ownerID int64) (model.Todo, bool, error) {
	return r.repo.Get(ctx, ownedBy(id, ownerID)) //nolint:wrapcheck
}

func (r *repositoryImpl) Update(ctx context.Context, id, ownerID int64, fields map[string]any) (model.Todo, bool, error) {
	return r.repo.Update(ctx, fields, ownedBy(id, ownerID)) //nolint:wrapcheck
}

func (r *repositoryImpl) Delete(ctx context.Context, id, ownerID int64) (model.Todo, bool, error) {
	return r.repo.Delete(ctx, ownedBy(id, ownerID)) //nolint:wrapcheck
}
