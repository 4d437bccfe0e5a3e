// Package testdb opens throwaway SQLite databases with the production schema
// for repository tests.
package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"audslp/pkg/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns an in-memory database migrated with the article and like
// tables. The database is private to t and closed with it.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection serializes writers the way row locks do in Postgres.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.Article{}, &models.ArticleLike{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// SeedArticle inserts an article with the given id and counter.
func SeedArticle(t *testing.T, db *gorm.DB, a models.Article) models.Article {
	t.Helper()
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed article %d: %v", a.ID, err)
	}
	return a
}
