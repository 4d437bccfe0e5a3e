package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"audslp/pkg/config"
	"audslp/pkg/database"
	"audslp/pkg/logger"
)

func main() {
	var (
		likers     int
		skipLikes  bool
		embeddings bool
	)
	flag.IntVar(&likers, "likers", 5, "number of demo fingerprints that like articles")
	flag.BoolVar(&skipLikes, "skip-likes", false, "do not call the like service")
	flag.BoolVar(&embeddings, "embeddings", true, "write demo embeddings for related articles")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithOptions(cfg.LogLevel, cfg.LogPretty).With("service", "seed")
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ids, err := seedArticles(ctx, db, demoArticles(time.Now()), log)
	if err != nil {
		log.Error("Failed to seed articles: %v", err)
		panic(err)
	}

	if embeddings {
		if err := seedEmbeddings(ctx, db, ids); err != nil {
			log.Error("Failed to seed embeddings: %v", err)
			panic(err)
		}
		log.Info("Wrote embeddings for %d articles", len(ids))
	}

	if !skipLikes {
		// Likes go through the like service so counters and caches stay in sync.
		liked := seedLikes(ctx, cfg.LikeServiceURL, ids, likers, log)
		log.Info("Recorded %d demo likes", liked)
	}

	log.Info("Database seeded successfully!")
}
