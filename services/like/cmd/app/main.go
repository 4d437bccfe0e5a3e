package main

import (
	"audslp/pkg/cache"
	"audslp/pkg/config"
	"audslp/pkg/database"
	"audslp/pkg/logger"
	"audslp/pkg/queue"
	likeApp "audslp/services/like/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Like Service API
// @version         1.0
// @description     Anonymous likes for journal articles, keyed by browser fingerprint
// @host            localhost:8001
// @BasePath        /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewWithOptions(cfg.LogLevel, cfg.LogPretty).With("service", "like")
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	// Like events only invalidate article caches downstream
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	likeApp.Run(cfg, log, db, redisClient, queueClient)
}
