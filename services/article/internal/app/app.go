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
	"audslp/pkg/logger"
	"audslp/pkg/middleware"
	"audslp/pkg/queue"
	articleHTTP "audslp/services/article/internal/controller/http"
	"audslp/services/article/internal/repo/cache"
	"audslp/services/article/internal/repo/persistent"
	"audslp/services/article/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	serviceName = "article"

	// LikeEventsQueue receives like events to invalidate cached listings.
	LikeEventsQueue = "article.like_events"
)

func NewRouter(articleUseCase usecase.ArticleUseCase, log *logger.Logger) *gin.Engine {
	articleHandler := articleHTTP.NewArticleHandler(articleUseCase, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware(serviceName))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/articles", articleHandler.ListArticles)
		api.GET("/articles/stats", articleHandler.GetStats)
		api.GET("/articles/:id", articleHandler.GetArticle)
		api.GET("/articles/:id/similar", articleHandler.SimilarArticles)
	}

	return r
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	// Initialize repositories
	articleRepo := persistent.NewArticleRepository(db)
	listCache := cache.NewRedisListCache(redisClient, cfg.ArticleListTTL)

	// Initialize use cases
	articleUseCase := usecase.NewArticleUseCase(articleRepo, listCache, log)

	ctx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	if queueClient != nil {
		if err := queueClient.ConsumeLikeToggled(ctx, LikeEventsQueue, articleUseCase.HandleLikeToggled); err != nil {
			log.Error("Failed to start like event consumer: %v (listings refresh by TTL only)", err)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(articleUseCase, log),
	}

	// Start server in a goroutine
	go func() {
		log.Info("Article service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down article service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopConsumer()
	if queueClient != nil {
		queueClient.Close()
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if err := database.Close(db); err != nil {
		log.Error("Error closing database: %v", err)
	}

	log.Info("Article service exited")
}
