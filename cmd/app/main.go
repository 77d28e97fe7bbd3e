package main

import (
	"tasklist/config"
	"tasklist/di"
	"tasklist/helper"
	"tasklist/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Tasklist API
// @version 1.0
// @description Personal to-do lists behind bearer token authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	logger.SetOutput(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
