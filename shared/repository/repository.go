package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"tasklist/infras/otel"
	"tasklist/infras/postgres"
	"tasklist/shared/constant"
	"tasklist/shared/dto"
	"tasklist/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	setArgPrefix = "set_"
	argSkip      = "skip"
	argLimit     = "limit"
)

var (
	ErrUniqueViolation = errors.New("unique constraint violation")

	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("no column to update")
)

// Repository is a generic table gateway for a db-tagged model. Fields tagged generated:"true"
// are filled by the database and never inserted. Every mutation is a single statement that
// returns the affected row, so callers never read back in a second round trip.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []string
	InsertColumns []string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(reflect.TypeOf(zero))

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) spanName(operation string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, operation)
}

// Insert writes model and returns the stored row including generated columns.
func (repo *Repository[T]) Insert(ctx context.Context, model T) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Insert"))
	defer scope.End()

	placeholders := make([]string, 0, len(repo.InsertColumns))
	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		repo.table,
		strings.Join(repo.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		repo.returning(),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var stored T

	err := repo.namedGet(ctx, repo.db.Write, &stored, query, model)
	if err != nil {
		scope.TraceError(err)

		return stored, fmt.Errorf("failed to insert data (%s): %w", repo.entitas, repo.mapError(err))
	}

	return stored, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Exist"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	exist := false

	err := repo.namedGet(ctx, repo.db.Read, &exist, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entitas, err)
	}

	return exist, nil
}

// Get returns the single row matching filter. found is false when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup) (model T, found bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Get"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return model, false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", repo.selectColumns(), repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.namedGet(ctx, repo.db.Read, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model, false, fmt.Errorf("failed to get data (%s): %w", repo.entitas, err)
	}

	return model, true, nil
}

// GetAll lists rows matching filter ordered by the primary column, windowed by params.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("GetAll"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	args[argSkip] = params.Skip
	args[argLimit] = params.Limit

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s.%s ASC LIMIT :%s OFFSET :%s",
		repo.selectColumns(), repo.table, where, repo.table, repo.primaryColumn, argLimit, argSkip)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	named, namedArgs, err := sqlx.Named(query, args)
	if err == nil {
		err = repo.db.Read.SelectContext(ctx, &models, repo.db.Read.Rebind(named), namedArgs...)
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return models, fmt.Errorf("failed to get all data (%s): %w", repo.entitas, err)
	}

	return models, nil
}

// Update sets the columns in mod on the row matching filter and returns the updated row.
// found is false when no row matches, in which case nothing was written.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (model T, found bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Update"))
	defer scope.End()

	if len(mod) == 0 {
		return model, false, errEmptyUpdate
	}

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return model, false, errRequiredFilter
	}

	updateField := make([]string, 0, len(mod))

	for _, col := range slices.Sorted(maps.Keys(mod)) {
		updateField = append(updateField, fmt.Sprintf("%s = :%s%s", col, setArgPrefix, col))
		args[setArgPrefix+col] = mod[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s RETURNING %s", repo.table, strings.Join(updateField, ", "), where, repo.returning())
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.namedGet(ctx, repo.db.Write, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, false, nil
	}

	if err != nil {
		scope.TraceError(err)

		return model, false, fmt.Errorf("failed to update data (%s): %w", repo.entitas, repo.mapError(err))
	}

	return model, true, nil
}

// Delete removes the row matching filter and returns it. found is false when no row matches.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) (model T, found bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Delete"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return model, false, errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s%s RETURNING %s", repo.table, where, repo.returning())
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.namedGet(ctx, repo.db.Write, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, false, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model, false, fmt.Errorf("failed to delete data (%s): %w", repo.entitas, err)
	}

	return model, true, nil
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()

	if where == "" {
		return where, map[string]any{}
	}

	return " WHERE " + where, args
}

func (repo *Repository[T]) namedGet(ctx context.Context, db *sqlx.DB, dest any, query string, arg any) error {
	named, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("failed to bind named query: %w", err)
	}

	return db.GetContext(ctx, dest, db.Rebind(named), args...) //nolint:wrapcheck
}

// mapError turns constraint violations the callers model into sentinel errors.
// Anything else is logged with its stack and passed through.
func (repo *Repository[T]) mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return fmt.Errorf("%w: %s", ErrUniqueViolation, pqErr.Constraint)
	}

	logger.ErrorWithStack(err)

	return err
}

func (repo *Repository[T]) selectColumns() string {
	columns := make([]string, 0, len(repo.columns))
	for _, col := range repo.columns {
		columns = append(columns, repo.table+"."+col)
	}

	return strings.Join(columns, ", ")
}

func (repo *Repository[T]) returning() string {
	return strings.Join(repo.columns, ", ")
}

func getColumns(reflectType reflect.Type) (columns []string, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)
		dbTag := field.Tag.Get("db")

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)

			continue
		}

		if dbTag == "" || dbTag == "-" {
			continue
		}

		columns = append(columns, dbTag)

		if field.Tag.Get("generated") != "true" {
			insertColumns = append(insertColumns, dbTag)
		}
	}

	return columns, insertColumns
}
