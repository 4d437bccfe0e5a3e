package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleLike records that one fingerprint liked one article. At most one row
// exists per (article_id, user_fingerprint); the unique index enforces it.
type ArticleLike struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	ArticleID   int64     `gorm:"not null;index;uniqueIndex:idx_article_likes_article_fingerprint,priority:1" json:"article_id"`
	Fingerprint string    `gorm:"column:user_fingerprint;not null;index;uniqueIndex:idx_article_likes_article_fingerprint,priority:2" json:"user_fingerprint"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ArticleLike) TableName() string {
	return "article_likes"
}

func (l *ArticleLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
