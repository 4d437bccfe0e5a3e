package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeModel struct {
	ID          string    `gorm:"type:uuid;primary_key"`
	ArticleID   int64     `gorm:"not null;uniqueIndex:idx_article_likes_article_fingerprint,priority:1"`
	Fingerprint string    `gorm:"column:user_fingerprint;not null;uniqueIndex:idx_article_likes_article_fingerprint,priority:2"`
	UserAgent   string
	CreatedAt   time.Time
}

func (LikeModel) TableName() string {
	return "article_likes"
}

func (l *LikeModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// ArticleCounterModel is the slice of rss_entries the like service touches.
type ArticleCounterModel struct {
	ID         int64 `gorm:"primaryKey"`
	LikesCount int64 `gorm:"not null;default:0"`
}

func (ArticleCounterModel) TableName() string {
	return "rss_entries"
}
