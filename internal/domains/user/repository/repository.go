package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tasklist/infras/otel"
	"tasklist/infras/postgres"
	"tasklist/internal/domains/user/model"
	"tasklist/shared"
	gRepo "tasklist/shared/repository"
)

type User interface {
	// Insert fails with repository.ErrUniqueViolation when the username is taken.
	Insert(ctx context.Context, user model.User) (model.User, error)
	// Get returns a zero User (ID 0) when no user has username.
	Get(ctx context.Context, username string) (model.User, error)
	Exist(ctx context.Context, username string) (bool, error)
}

type repositoryImpl struct {
	repo gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		repo: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, user model.User) (model.User, error) {
	return r.repo.Insert(ctx, user) //nolint:wrapcheck
}

func (r *repositoryImpl) Get(ctx context.Context, username string) (model.User, error) {
	user, _, err := r.repo.Get(ctx, shared.FilterByField(username, model.FieldUsername, model.TableName))

	return user, err //nolint:wrapcheck
}

func (r *repositoryImpl) Exist(ctx context.Context, username string) (bool, error) {
	return r.repo.Exist(ctx, shared.FilterByField(username, model.FieldUsername, model.TableName)) //nolint:wrapcheck
}
