// Package liketest runs the like service in-process for tests of its callers.
package liketest

import (
	"net/http/httptest"
	"testing"
	"time"

	"audslp/pkg/config"
	"audslp/pkg/logger"
	likeApp "audslp/services/like/internal/app"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewServer serves the full like router over db, backed by a private
// miniredis and a rate limit high enough not to interfere. The server is
// closed with t.
func NewServer(t *testing.T, db *gorm.DB) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		LikeStatusTTL:   30 * time.Second,
		RateLimit:       1000,
		RateLimitWindow: time.Minute,
	}
	srv := httptest.NewServer(likeApp.NewRouter(cfg, logger.NewNop(), db, redisClient, nil))
	t.Cleanup(srv.Close)
	return srv
}
