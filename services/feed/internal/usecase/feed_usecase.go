package usecase

import (
	"context"
	"fmt"
	"time"

	"audslp/pkg/logger"
	"audslp/pkg/metrics"
	"audslp/services/feed/internal/entity"
	"audslp/services/feed/internal/repo/persistent"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"
)

const (
	// RSSLimit is how many of the newest articles the RSS feed carries.
	RSSLimit = 50
	// SitemapLimit bounds the sitemap size.
	SitemapLimit = 5000

	rssMaxAge     = 30 * time.Minute
	sitemapMaxAge = time.Hour
	robotsMaxAge  = time.Hour

	contentTypeRSS  = "application/rss+xml; charset=utf-8"
	contentTypeXML  = "application/xml"
	contentTypeText = "text/plain; charset=utf-8"
)

type FeedUseCase interface {
	RSS(ctx context.Context) (*entity.Document, error)
	// Sitemap falls back to a home-page-only sitemap when articles cannot be
	// loaded, so it always returns a document.
	Sitemap(ctx context.Context) *entity.Document
	Robots() *entity.Document
	Export(ctx context.Context, store DocumentStore, prefix string) error
}

// DocumentStore is satisfied by *s3.Client.
type DocumentStore interface {
	PutDocument(ctx context.Context, key string, body []byte, contentType, cacheControl string) (string, error)
}

type feedUseCase struct {
	feedRepo persistent.FeedRepository
	site     Site
	policy   *bluemonday.Policy
	rendered *expirable.LRU[string, *entity.Document]
	renders  singleflight.Group
	logger   *logger.Logger
	now      func() time.Time
}

// NewFeedUseCase keeps rendered documents in memory for cacheTTL. A zero
// cacheTTL renders on every request.
func NewFeedUseCase(feedRepo persistent.FeedRepository, site Site, cacheTTL time.Duration, logger *logger.Logger) FeedUseCase {
	uc := &feedUseCase{
		feedRepo: feedRepo,
		site:     site,
		policy:   contentPolicy(),
		logger:   logger,
		now:      time.Now,
	}
	if cacheTTL > 0 {
		uc.rendered = expirable.NewLRU[string, *entity.Document](8, nil, cacheTTL)
	}
	return uc
}

func (uc *feedUseCase) RSS(ctx context.Context) (*entity.Document, error) {
	return uc.cached(entity.DocumentRSS, func() (*entity.Document, error) {
		articles, err := uc.feedRepo.LatestArticles(ctx, RSSLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load articles for RSS: %w", err)
		}
		body, err := renderRSS(uc.site, articles, uc.now(), uc.policy)
		if err != nil {
			return nil, fmt.Errorf("failed to render RSS: %w", err)
		}
		return &entity.Document{Name: entity.DocumentRSS, ContentType: contentTypeRSS, MaxAge: rssMaxAge, Body: body}, nil
	})
}

func (uc *feedUseCase) fullSitemap(ctx context.Context) (*entity.Document, error) {
	return uc.cached(entity.DocumentSitemap, func() (*entity.Document, error) {
		articles, err := uc.feedRepo.SitemapArticles(ctx, SitemapLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load articles for sitemap: %w", err)
		}
		body, err := renderSitemap(uc.site, articles, uc.now())
		if err != nil {
			return nil, fmt.Errorf("failed to render sitemap: %w", err)
		}
		return &entity.Document{Name: entity.DocumentSitemap, ContentType: contentTypeXML, MaxAge: sitemapMaxAge, Body: body}, nil
	})
}

func (uc *feedUseCase) Sitemap(ctx context.Context) *entity.Document {
	doc, err := uc.fullSitemap(ctx)
	if err != nil {
		uc.logger.Error("Error generating sitemap, serving basic sitemap: %v", err)
		metrics.FeedRenders.WithLabelValues("sitemap_fallback").Inc()
		return &entity.Document{
			Name:        entity.DocumentSitemap,
			ContentType: contentTypeXML,
			MaxAge:      sitemapMaxAge,
			Body:        renderBasicSitemap(uc.site, uc.now()),
		}
	}
	return doc
}

func (uc *feedUseCase) Robots() *entity.Document {
	return &entity.Document{
		Name:        entity.DocumentRobots,
		ContentType: contentTypeText,
		MaxAge:      robotsMaxAge,
		Body:        renderRobots(uc.site),
	}
}

// Export renders every document and uploads it under prefix. It stops at the
// first failure; a sitemap fallback is never exported.
func (uc *feedUseCase) Export(ctx context.Context, store DocumentStore, prefix string) error {
	rss, err := uc.RSS(ctx)
	if err != nil {
		return err
	}

	sitemap, err := uc.fullSitemap(ctx)
	if err != nil {
		return err
	}

	for _, doc := range []*entity.Document{rss, sitemap, uc.Robots()} {
		url, err := store.PutDocument(ctx, prefix+doc.Name, doc.Body, doc.ContentType, doc.CacheControl())
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", doc.Name, err)
		}
		uc.logger.Info("Exported %s (%d bytes) to %s", doc.Name, len(doc.Body), url)
	}
	return nil
}

func (uc *feedUseCase) cached(name string, render func() (*entity.Document, error)) (*entity.Document, error) {
	if uc.rendered != nil {
		if doc, ok := uc.rendered.Get(name); ok {
			return doc, nil
		}
	}

	v, err, _ := uc.renders.Do(name, func() (interface{}, error) {
		doc, err := render()
		if err != nil {
			return nil, err
		}
		metrics.FeedRenders.WithLabelValues(name).Inc()
		if uc.rendered != nil {
			uc.rendered.Add(name, doc)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.Document), nil
}
