package persistent

import (
	"context"

	"audslp/pkg/models"
	"audslp/services/feed/internal/entity"

	"gorm.io/gorm"
)

type FeedRepository interface {
	LatestArticles(ctx context.Context, limit int) ([]entity.Article, error)
	SitemapArticles(ctx context.Context, limit int) ([]entity.Article, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) LatestArticles(ctx context.Context, limit int) ([]entity.Article, error) {
	var rows []models.Article
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toArticles(rows), nil
}

// SitemapArticles loads only the columns a sitemap entry needs.
func (r *feedRepository) SitemapArticles(ctx context.Context, limit int) ([]entity.Article, error) {
	var rows []models.Article
	err := r.db.WithContext(ctx).
		Select("id", "title_translated", "created_at", "published").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toArticles(rows), nil
}

func toArticles(rows []models.Article) []entity.Article {
	articles := make([]entity.Article, len(rows))
	for i, m := range rows {
		articles[i] = entity.Article{
			ID:              m.ID,
			Title:           m.Title,
			TitleTranslated: m.TitleTranslated,
			TLDR:            m.TLDR,
			EnglishTLDR:     m.EnglishTLDR,
			Source:          m.Source,
			Link:            m.Link,
			PMID:            m.PMID,
			DOI:             m.DOI,
			Published:       m.Published,
			CreatedAt:       m.CreatedAt,
		}
	}
	return articles
}
