package main

import (
	"audslp/pkg/cache"
	"audslp/pkg/config"
	"audslp/pkg/database"
	"audslp/pkg/logger"
	"audslp/pkg/queue"
	articleApp "audslp/services/article/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Article Service API
// @version         1.0
// @description     Journal article listing, search, related articles and stats
// @host            localhost:8002
// @BasePath        /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewWithOptions(cfg.LogLevel, cfg.LogPretty).With("service", "article")
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

	// Without the queue, cached listings go stale for at most ARTICLE_LIST_TTL
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	articleApp.Run(cfg, log, db, redisClient, queueClient)
}
