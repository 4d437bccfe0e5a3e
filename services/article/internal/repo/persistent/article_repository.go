package persistent

import (
	"context"
	"errors"
	"time"

	"audslp/pkg/models"
	"audslp/services/article/internal/entity"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ArticleRepository interface {
	List(ctx context.Context, q entity.ListQuery) ([]entity.Article, int64, error)
	Sources(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*entity.Article, error)
	Similar(ctx context.Context, id int64, threshold float64, limit int) ([]entity.SimilarArticle, error)
	Stats(ctx context.Context, since time.Time) (entity.Stats, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) List(ctx context.Context, q entity.ListQuery) ([]entity.Article, int64, error) {
	var total int64
	if err := applyFilters(r.db.WithContext(ctx).Model(&models.Article{}), q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Article
	if total > int64(q.Offset) {
		if err := ApplyListQuery(r.db.WithContext(ctx), q).Find(&rows).Error; err != nil {
			return nil, 0, err
		}
	}

	return ToArticleEntities(rows), total, nil
}

func (r *articleRepository) Sources(ctx context.Context) ([]string, error) {
	var sources []string
	err := r.db.WithContext(ctx).Model(&models.Article{}).
		Where("source IS NOT NULL AND source <> ''").
		Distinct("source").
		Order("source").
		Pluck("source", &sources).Error
	return sources, err
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*entity.Article, error) {
	var row models.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	article := ToArticleEntity(row)
	return &article, nil
}

type similarRow struct {
	models.Article `gorm:"embedded"`
	Similarity     float64
}

// Similar calls get_similar_articles, which ranks by cosine similarity of the
// embedding column and skips the target itself.
func (r *articleRepository) Similar(ctx context.Context, id int64, threshold float64, limit int) ([]entity.SimilarArticle, error) {
	var rows []similarRow
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_similar_articles(?, ?, ?)", id, threshold, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	similar := make([]entity.SimilarArticle, len(rows))
	for i, row := range rows {
		similar[i] = entity.SimilarArticle{
			Article:    ToArticleEntity(row.Article),
			Similarity: row.Similarity,
		}
	}
	return similar, nil
}

func (r *articleRepository) Stats(ctx context.Context, since time.Time) (entity.Stats, error) {
	var stats entity.Stats
	db := r.db.WithContext(ctx)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.Model(&models.Article{}).Count(&stats.TotalArticles).Error
	})
	g.Go(func() error {
		return db.Model(&models.Article{}).
			Where("source IS NOT NULL AND source <> ''").
			Distinct("source").
			Count(&stats.TotalSources).Error
	})
	g.Go(func() error {
		return db.Model(&models.Article{}).Where("created_at >= ?", since).Count(&stats.RecentArticles).Error
	})
	g.Go(func() error {
		return db.Model(&models.Article{}).Where("likes_count > 0").Count(&stats.PopularArticles).Error
	})
	if err := g.Wait(); err != nil {
		return entity.Stats{}, err
	}
	return stats, nil
}
