package persistent

import (
	"audslp/pkg/models"
	"audslp/services/article/internal/entity"
)

func ToArticleEntity(m models.Article) entity.Article {
	return entity.Article{
		ID:              m.ID,
		Title:           m.Title,
		TitleTranslated: m.TitleTranslated,
		TLDR:            m.TLDR,
		EnglishTLDR:     m.EnglishTLDR,
		Source:          m.Source,
		Link:            m.Link,
		Published:       m.Published,
		CreatedAt:       m.CreatedAt,
		PMID:            m.PMID,
		DOI:             m.DOI,
		LikesCount:      m.LikesCount,
	}
}

func ToArticleEntities(rows []models.Article) []entity.Article {
	articles := make([]entity.Article, len(rows))
	for i, row := range rows {
		articles[i] = ToArticleEntity(row)
	}
	return articles
}
