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
	feedHTTP "audslp/services/feed/internal/controller/http"
	"audslp/services/feed/internal/repo/persistent"
	"audslp/services/feed/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const serviceName = "feed"

// NewFeedUseCase builds the use case from configuration. It is shared by
// the server and the export command.
func NewFeedUseCase(cfg *config.Config, log *logger.Logger, db *gorm.DB) usecase.FeedUseCase {
	site := usecase.Site{
		BaseURL:   cfg.SiteBaseURL,
		MirrorURL: cfg.SiteMirrorURL,
		Name:      cfg.SiteName,
	}
	return usecase.NewFeedUseCase(persistent.NewFeedRepository(db), site, cfg.FeedCacheTTL, log)
}

func NewRouter(feedUseCase usecase.FeedUseCase, log *logger.Logger) *gin.Engine {
	feedHandler := feedHTTP.NewFeedHandler(feedUseCase, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware(serviceName))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
		MaxAge:       12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/rss.xml", feedHandler.GetRSS)
	r.GET("/sitemap.xml", feedHandler.GetSitemap)
	r.GET("/robots.txt", feedHandler.GetRobots)

	return r
}

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB) {
	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(NewFeedUseCase(cfg, log, db), log),
	}

	// Start server in a goroutine
	go func() {
		log.Info("Feed service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down feed service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := database.Close(db); err != nil {
		log.Error("Error closing database: %v", err)
	}

	log.Info("Feed service exited")
}
