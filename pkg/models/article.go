package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector column created by the migrations.
const EmbeddingDimensions = 1536

// Article is one aggregated journal entry. Rows are written by the RSS
// ingestion pipeline; this repository only reads them and keeps likes_count
// in sync with article_likes.
type Article struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           *string    `json:"title"`
	TitleTranslated *string    `json:"title_translated"`
	TLDR            *string    `gorm:"column:tldr" json:"tldr"`
	EnglishTLDR     *string    `gorm:"column:english_tldr" json:"english_tldr"`
	Source          *string    `gorm:"index" json:"source"`
	Link            *string    `json:"link"`
	Published       *time.Time `gorm:"index" json:"published"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	PMID            *string    `gorm:"column:pmid" json:"pmid"`
	DOI             *string    `gorm:"column:doi" json:"doi"`
	LikesCount      int64      `gorm:"not null;default:0" json:"likes_count"`
}

func (Article) TableName() string {
	return "rss_entries"
}

// ArticleEmbedding maps the embedding column of rss_entries. It is kept off
// Article so list queries never ship vectors.
type ArticleEmbedding struct {
	ID        int64           `gorm:"primaryKey"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}

func (ArticleEmbedding) TableName() string {
	return "rss_entries"
}
