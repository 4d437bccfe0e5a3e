// Command export renders rss.xml, sitemap.xml and robots.txt and uploads
// them to the S3 bucket that backs the static site.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"audslp/pkg/config"
	"audslp/pkg/database"
	"audslp/pkg/logger"
	"audslp/pkg/s3"
	feedApp "audslp/services/feed/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	prefix := flag.String("prefix", cfg.FeedPrefix, "object key prefix")
	timeout := flag.Duration("timeout", 2*time.Minute, "export timeout")
	flag.Parse()

	log := logger.NewWithOptions(cfg.LogLevel, cfg.LogPretty).With("service", "feed-export")
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer database.Close(db)

	store, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// The cache only matters for the server.
	cfg.FeedCacheTTL = 0
	if err := feedApp.NewFeedUseCase(cfg, log, db).Export(ctx, store, *prefix); err != nil {
		log.Error("Export failed: %v", err)
		os.Exit(1)
	}
	log.Info("Export completed")
}
