package entity

import (
	"fmt"
	"time"
)

const (
	DocumentRSS     = "rss.xml"
	DocumentSitemap = "sitemap.xml"
	DocumentRobots  = "robots.txt"
)

// Document is a rendered public file served as-is.
type Document struct {
	Name        string
	ContentType string
	MaxAge      time.Duration
	Body        []byte
}

// CacheControl is the header value shared caches and browsers honor.
func (d *Document) CacheControl() string {
	secs := int(d.MaxAge.Seconds())
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d", secs, secs)
}

// Article is the part of a journal entry the feeds publish.
type Article struct {
	ID              int64
	Title           *string
	TitleTranslated *string
	TLDR            *string
	EnglishTLDR     *string
	Source          *string
	Link            *string
	PMID            *string
	DOI             *string
	Published       *time.Time
	CreatedAt       time.Time
}

// PublishedAt falls back to the ingestion time for entries without a date.
func (a Article) PublishedAt() time.Time {
	if a.Published != nil && !a.Published.IsZero() {
		return *a.Published
	}
	return a.CreatedAt
}
