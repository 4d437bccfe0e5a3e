package entity

import "time"

type Article struct {
	ID              int64      `json:"id"`
	Title           *string    `json:"title"`
	TitleTranslated *string    `json:"title_translated"`
	TLDR            *string    `json:"tldr"`
	EnglishTLDR     *string    `json:"english_tldr"`
	Source          *string    `json:"source"`
	Link            *string    `json:"link"`
	Published       *time.Time `json:"published"`
	CreatedAt       time.Time  `json:"created_at"`
	PMID            *string    `json:"pmid"`
	DOI             *string    `json:"doi"`
	LikesCount      int64      `json:"likes_count"`
}

// DisplayTitle prefers the translated title.
func (a Article) DisplayTitle() string {
	if a.TitleTranslated != nil && *a.TitleTranslated != "" {
		return *a.TitleTranslated
	}
	if a.Title != nil {
		return *a.Title
	}
	return ""
}

type SimilarArticle struct {
	Article
	Similarity float64 `json:"similarity"`
}

type ArticlePage struct {
	Articles   []Article `json:"articles"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Sources    []string  `json:"sources"`
}

type Stats struct {
	TotalArticles   int64 `json:"total_articles"`
	TotalSources    int64 `json:"total_sources"`
	RecentArticles  int64 `json:"recent_articles"`
	PopularArticles int64 `json:"popular_articles"`
}
