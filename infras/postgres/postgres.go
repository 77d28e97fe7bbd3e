package postgres

//nolint:revive
import (
	"net/url"
	"tasklist/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	return CreatePostgresConnection(
		"write",
		config.DB.Postgres.URL,
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresReadConn creates a database connection for read access.
// Without a dedicated replica URL reads go to the primary.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	dsn := config.DB.Postgres.ReadURL
	if dsn == "" {
		dsn = config.DB.Postgres.URL
	}

	return CreatePostgresConnection(
		"read",
		dsn,
		config.DB.Postgres.MaxRetry,
		config.DB.Postgres.RetryWaitTime,
	)
}

// CreatePostgresConnection connects to dsn, retrying maxRetry times. It fails hard once the
// retries are exhausted since the service cannot serve anything without its store.
func CreatePostgresConnection(name, dsn string, maxRetry, waitTime int) *sqlx.DB {
	host, dbName := describe(dsn)

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("host", host).
				Str("dbName", dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("host", host).
			Str("dbName", dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	log.Fatal().Str("name", name).Str("host", host).Msg("Could not connect to database")

	return nil
}

// describe extracts loggable parts of a connection URL without the credentials.
func describe(dsn string) (host, dbName string) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", ""
	}

	if len(parsed.Path) > 1 {
		dbName = parsed.Path[1:]
	}

	return parsed.Host, dbName
}
