package constant

import (
	"time"
)

const (
	ContextSystem = "system"
)

// Settings that configure the bootstrap account, as named in the environment.
const (
	EnvDefaultUserUsername = "APP_DEFAULT_USER_USERNAME"
	EnvDefaultUserPassword = "APP_DEFAULT_USER_PASSWORD"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUsername contextKey = "username"
	ContextKeyTokenID  contextKey = "token_id"
)

const (
	RequestParamSkip  = "skip"
	RequestParamLimit = "limit"
)

const (
	RequestParamID       = "id"
	RequestParamUsername = "username"
	RequestParamPassword = "password"
	RequestMaxMemory     = 10 << 20 // 10 MB
)

const (
	DefaultValueSkip  = 0
	DefaultValueLimit = 100
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

const (
	DateFormat = time.RFC3339
)

const (
	MinutesToSeconds = 60
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization   = "Authorization"
	RequestHeaderUserAgent       = "User-Agent"
	RequestHeaderContentType     = "Content-Type"
	RequestHeaderWWWAuthenticate = "WWW-Authenticate"
	RequestHeaderRequestID       = "X-Request-ID"
)

const (
	AuthSchemeBearer = "Bearer"
	TokenTypeBearer  = "bearer"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

const (
	ResponseErrorPrepareShutdown = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy       = "SERVER UNHEALTHY"
	ResponseMessageHealthy       = "OK"
)

const (
	ResponseErrorCredentials      = "Could not validate credentials"
	ResponseErrorLogin            = "Incorrect username or password"
	ResponseErrorUsernameTaken    = "Username already registered"
	ResponseErrorTodoNotFound     = "Todo not found"
	ResponseErrorInvalidTodoID    = "invalid todo id"
	ResponseErrorMissingFormField = "username and password are required"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	CacheKeyTodo  = "todo"
	CacheKeyStale = "stale"
)
