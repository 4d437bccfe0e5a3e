package main

import (
	"audslp/pkg/config"
	"audslp/pkg/database"
	"audslp/pkg/logger"
	feedApp "audslp/services/feed/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewWithOptions(cfg.LogLevel, cfg.LogPretty).With("service", "feed")
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	feedApp.Run(cfg, log, db)
}
