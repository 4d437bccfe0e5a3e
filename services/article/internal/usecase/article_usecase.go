package usecase

import (
	"context"
	"fmt"
	"time"

	"audslp/pkg/logger"
	"audslp/pkg/metrics"
	"audslp/pkg/queue"
	"audslp/services/article/internal/entity"
	"audslp/services/article/internal/repo/cache"
	"audslp/services/article/internal/repo/persistent"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSimilarityThreshold = 0.6
	DefaultSimilarLimit        = 5
	MaxSimilarLimit            = 20

	recentWindow = 7 * 24 * time.Hour
)

type ArticleUseCase interface {
	ListArticles(ctx context.Context, q entity.ListQuery) (*entity.ArticlePage, error)
	GetArticle(ctx context.Context, id int64) (*entity.Article, error)
	SimilarArticles(ctx context.Context, id int64, threshold float64, limit int) ([]entity.SimilarArticle, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	HandleLikeToggled(event queue.LikeToggledEvent) error
}

type articleUseCase struct {
	articleRepo persistent.ArticleRepository
	listCache   cache.ListCache
	logger      *logger.Logger
	fills       singleflight.Group
	now         func() time.Time
}

// NewArticleUseCase builds the article use case. listCache may be nil.
func NewArticleUseCase(articleRepo persistent.ArticleRepository, listCache cache.ListCache, logger *logger.Logger) ArticleUseCase {
	return &articleUseCase{
		articleRepo: articleRepo,
		listCache:   listCache,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *articleUseCase) ListArticles(ctx context.Context, q entity.ListQuery) (*entity.ArticlePage, error) {
	if q.Limit <= 0 || q.Limit > entity.MaxPageSize || q.Offset < 0 {
		return nil, fmt.Errorf("%w: page size must be 1..%d", entity.ErrInvalidQuery, entity.MaxPageSize)
	}

	if uc.listCache != nil {
		page, ok, err := uc.listCache.GetPage(ctx, q)
		switch {
		case err != nil:
			uc.logger.Warn("Failed to read article list cache: %v", err)
			metrics.ArticleListCache.WithLabelValues("error").Inc()
		case ok:
			metrics.ArticleListCache.WithLabelValues("hit").Inc()
			return page, nil
		default:
			metrics.ArticleListCache.WithLabelValues("miss").Inc()
		}
	}

	// Identical page requests arriving together share one database round.
	v, err, _ := uc.fills.Do("list:"+q.CacheKey(), func() (interface{}, error) {
		return uc.loadPage(ctx, q)
	})
	if err != nil {
		uc.logger.Error("Failed to list articles: %v", err)
		return nil, err
	}
	page := v.(*entity.ArticlePage)

	if uc.listCache != nil {
		if err := uc.listCache.SetPage(ctx, q, page); err != nil {
			uc.logger.Warn("Failed to write article list cache: %v", err)
		}
	}
	return page, nil
}

func (uc *articleUseCase) loadPage(ctx context.Context, q entity.ListQuery) (*entity.ArticlePage, error) {
	page := &entity.ArticlePage{
		Page:     q.Page(),
		PageSize: q.Limit,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		articles, total, err := uc.articleRepo.List(gctx, q)
		if err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		page.Articles = articles
		page.TotalCount = total
		return nil
	})
	g.Go(func() error {
		sources, err := uc.articleRepo.Sources(gctx)
		if err != nil {
			// The filter list is cosmetic; the page still renders without it.
			uc.logger.Warn("Failed to load article sources: %v", err)
		}
		page.Sources = sources
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if page.Sources == nil {
		page.Sources = []string{}
	}
	page.TotalPages = q.TotalPages(page.TotalCount)
	return page, nil
}

func (uc *articleUseCase) GetArticle(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: article id %d must be positive", entity.ErrInvalidQuery, id)
	}
	return uc.articleRepo.GetByID(ctx, id)
}

func (uc *articleUseCase) SimilarArticles(ctx context.Context, id int64, threshold float64, limit int) ([]entity.SimilarArticle, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: article id %d must be positive", entity.ErrInvalidQuery, id)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: similarity threshold %.2f outside 0..1", entity.ErrInvalidQuery, threshold)
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}

	if _, err := uc.articleRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	similar, err := uc.articleRepo.Similar(ctx, id, threshold, limit)
	if err != nil {
		uc.logger.Error("Failed to load articles similar to %d: %v", id, err)
		return nil, fmt.Errorf("failed to load similar articles: %w", err)
	}
	return similar, nil
}

func (uc *articleUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	if uc.listCache != nil {
		if stats, ok, err := uc.listCache.GetStats(ctx); err != nil {
			uc.logger.Warn("Failed to read stats cache: %v", err)
		} else if ok {
			return stats, nil
		}
	}

	stats, err := uc.articleRepo.Stats(ctx, uc.now().Add(-recentWindow))
	if err != nil {
		uc.logger.Error("Failed to compute article stats: %v", err)
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	if uc.listCache != nil {
		if err := uc.listCache.SetStats(ctx, &stats); err != nil {
			uc.logger.Warn("Failed to write stats cache: %v", err)
		}
	}
	return &stats, nil
}

// HandleLikeToggled drops cached listings, whose likes_count and
// likes_count ordering are now stale.
func (uc *articleUseCase) HandleLikeToggled(event queue.LikeToggledEvent) error {
	if uc.listCache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := uc.listCache.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to invalidate article caches after like on %d: %w", event.ArticleID, err)
	}
	uc.logger.Debug("Invalidated article caches after like on article %d", event.ArticleID)
	return nil
}
