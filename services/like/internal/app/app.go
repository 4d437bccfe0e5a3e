package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audslp/pkg/config"
	"audslp/pkg/database"
	"audslp/pkg/fingerprint"
	"audslp/pkg/logger"
	"audslp/pkg/middleware"
	"audslp/pkg/queue"
	likeHTTP "audslp/services/like/internal/controller/http"
	"audslp/services/like/internal/repo/cache"
	"audslp/services/like/internal/repo/persistent"
	"audslp/services/like/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "audslp/services/like/docs" // Swagger docs
)

const serviceName = "like"

// NewRouter builds the like service routes. queueClient may be nil.
func NewRouter(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) *gin.Engine {
	// Initialize repositories
	likeRepo := persistent.NewLikeRepository(db)
	statusCache := cache.NewRedisStatusCache(redisClient, cfg.LikeStatusTTL)

	// Initialize use cases
	var publisher usecase.EventPublisher
	if queueClient != nil {
		publisher = queueClient
	}
	likeUseCase := usecase.NewLikeUseCase(likeRepo, statusCache, publisher, log)

	// Initialize HTTP handlers
	likeHandler := likeHTTP.NewLikeHandler(likeUseCase, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware(serviceName))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			fingerprint.HeaderFingerprint,
			fingerprint.HeaderScreen,
			fingerprint.HeaderTimezoneOffset,
			fingerprint.HeaderStorage,
			fingerprint.HeaderCanvas,
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.FingerprintMiddleware())
	api.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimit, cfg.RateLimitWindow))
	{
		api.GET("/likes/fingerprint", likeHandler.GetFingerprint)
		api.GET("/likes/articles/:article_id", likeHandler.GetLikeStatus)
		api.POST("/likes/articles/:article_id/toggle", likeHandler.ToggleLike)
		api.POST("/likes/batch", likeHandler.BatchLikeStatus)
	}

	return r
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	r := NewRouter(cfg, log, db, redisClient, queueClient)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Like service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down like service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Drain in-flight toggles before closing their connections
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if queueClient != nil {
		queueClient.Close()
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if err := database.Close(db); err != nil {
		log.Error("Error closing database: %v", err)
	}

	log.Info("Like service exited")
}
