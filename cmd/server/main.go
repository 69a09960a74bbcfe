package main

import (
	_ "teamtrack/docs"
	"teamtrack/internal/config"
	"teamtrack/internal/server"

	"go.uber.org/zap"
)

// @title           TeamTrack API
// @version         1.0
// @description     API for managing projects, tasks and team collaboration.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	cfg := config.Load()

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatal("server initialization failed", zap.Error(err))
	}

	s.Run()
}
