package todo

import (
	"net/http"
	"strconv"
	"tasklist/infras/otel"
	"tasklist/internal/domains/todo/model/dto"
	"tasklist/internal/domains/todo/service"
	"tasklist/shared/constant"
	gDto "tasklist/shared/dto"
	"tasklist/shared/failure"
	"tasklist/shared/validator"
	"tasklist/transport/http/middleware"
	"tasklist/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Todo
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Todo, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)

		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Put("/{id}", handler.ReplaceTodo)
		routerGroup.Patch("/{id}", handler.PatchTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
	})
}

// GetTodos lists the caller's todos.
// @Summary List todos
// @Description List the authenticated user's todos ordered by id.
// @Tags Todo
// @Produce json
// @Param skip query int false "Number of todos to skip" default(0)
// @Param limit query int false "Maximum number of todos to return" default(100)
// @Success 200 {array} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/ [get]
// @Security BearerAuth
func (handler *Handler) GetTodos(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	if err := queryParams.FromRequest(request); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	todos, err := handler.service.GetAll(ctx, ownerID(request), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, todos)
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a todo
// @Description Create a todo owned by the authenticated user. New todos are never completed.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/ [post]
// @Security BearerAuth
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Create(ctx, ownerID(request), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo created")

	response.WithJSON(writer, http.StatusOK, todo)
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo
// @Description Get one of the authenticated user's todos. Todos of other users are reported as not found.
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTodoByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Get(ctx, ownerID(request), id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, todo)
}

// ReplaceTodo overwrites the title and description of a todo.
// @Summary Replace a todo
// @Description Replace title and description. An omitted description is cleared; completed is left unchanged.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.ReplaceTodoRequest true "Replace Todo Request"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [put]
// @Security BearerAuth
func (handler *Handler) ReplaceTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReplaceTodo")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.ReplaceTodoRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Replace(ctx, ownerID(request), id, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo replaced")

	response.WithJSON(writer, http.StatusOK, todo)
}

// PatchTodo updates only the fields present in the body.
// @Summary Update a todo
// @Description Apply the title, description and completed fields that are present; null counts as absent.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.PatchTodoRequest true "Patch Todo Request"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [patch]
// @Security BearerAuth
func (handler *Handler) PatchTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PatchTodo")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.PatchTodoRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := req.Validate(); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Patch(ctx, ownerID(request), id, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo patched")

	response.WithJSON(writer, http.StatusOK, todo)
}

// DeleteTodo deletes a todo item by its ID and returns it.
// @Summary Delete a todo
// @Description Delete one of the authenticated user's todos and return the removed record.
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id, err := todoID(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Delete(ctx, ownerID(request), id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo deleted")

	response.WithJSON(writer, http.StatusOK, todo)
}

// ownerID is set by the auth middleware on every route of this handler.
func ownerID(request *http.Request) int64 {
	id, _ := request.Context().Value(constant.ContextKeyUserID).(int64)

	return id
}

func todoID(request *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, constant.RequestParamID), 10, 64)
	if err != nil {
		return 0, failure.BadRequestFromString(constant.ResponseErrorInvalidTodoID) //nolint:wrapcheck
	}

	return id, nil
}
