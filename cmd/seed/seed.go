package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"audslp/pkg/logger"
	"audslp/pkg/models"
	"audslp/services/like/client"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func demoArticles(now time.Time) []models.Article {
	day := func(n int) *time.Time {
		t := now.AddDate(0, 0, -n).Truncate(time.Hour)
		return &t
	}
	return []models.Article{
		{
			Title:           strPtr("Long-term outcomes of cochlear implantation in older adults"),
			TitleTranslated: strPtr("高齡者人工電子耳植入的長期成效"),
			TLDR:            strPtr("植入後三年內語音辨識分數持續上升，認知功能亦有改善。"),
			EnglishTLDR:     strPtr("Speech recognition keeps improving for three years after implantation, with gains in cognition."),
			Source:          strPtr("International Journal of Audiology"),
			Link:            strPtr("https://doi.org/10.1080/demo.0001"),
			DOI:             strPtr("10.1080/demo.0001"),
			PMID:            strPtr("39000001"),
			Published:       day(2),
		},
		{
			Title:           strPtr("Cochlear implant fitting with remote programming"),
			TitleTranslated: strPtr("人工電子耳遠距調機"),
			TLDR:            strPtr("遠距調機與門診調機的語音辨識結果無顯著差異。"),
			EnglishTLDR:     strPtr("Remote cochlear implant programming matches in-clinic speech recognition outcomes."),
			Source:          strPtr("Ear and Hearing"),
			Link:            strPtr("https://doi.org/10.1097/demo.0002"),
			DOI:             strPtr("10.1097/demo.0002"),
			Published:       day(5),
		},
		{
			Title:           strPtr("Parent-implemented language intervention for late talkers"),
			TitleTranslated: strPtr("家長執行之語言介入對語言發展遲緩幼兒的效果"),
			TLDR:            strPtr("家長訓練後幼兒詞彙量顯著增加。"),
			EnglishTLDR:     strPtr("Children's expressive vocabulary grew after parents were trained in language intervention."),
			Source:          strPtr("Journal of Speech, Language, and Hearing Research"),
			Link:            strPtr("https://doi.org/10.1044/demo.0003"),
			DOI:             strPtr("10.1044/demo.0003"),
			PMID:            strPtr("39000003"),
			Published:       day(1),
		},
		{
			Title:           strPtr("Tinnitus severity and sleep quality"),
			TitleTranslated: strPtr("耳鳴嚴重度與睡眠品質"),
			TLDR:            strPtr("耳鳴困擾程度與失眠指數呈中度相關。"),
			Source:          strPtr("International Journal of Audiology"),
			Published:       day(9),
		},
		{
			Title:       strPtr("Stuttering treatment in school-age children"),
			EnglishTLDR: strPtr("A randomized trial of stuttering treatment for school-age children."),
			Source:      strPtr("Journal of Speech, Language, and Hearing Research"),
			Link:        strPtr("https://doi.org/10.1044/demo.0005"),
			DOI:         strPtr("10.1044/demo.0005"),
		},
	}
}

// seedArticles inserts the articles that are not present yet, matched by
// title, and returns the ids of all of them.
func seedArticles(ctx context.Context, db *gorm.DB, articles []models.Article, log *logger.Logger) ([]int64, error) {
	ids := make([]int64, 0, len(articles))
	for _, article := range articles {
		var existing models.Article
		err := db.WithContext(ctx).Where("title = ?", *article.Title).First(&existing).Error
		if err == nil {
			log.Info("Article %q already exists, skipping", *article.Title)
			ids = append(ids, existing.ID)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up article: %w", err)
		}

		if err := db.WithContext(ctx).Create(&article).Error; err != nil {
			return nil, fmt.Errorf("failed to create article %q: %w", *article.Title, err)
		}
		log.Info("Created article %d: %s", article.ID, *article.Title)
		ids = append(ids, article.ID)
	}
	return ids, nil
}

func seedEmbeddings(ctx context.Context, db *gorm.DB, ids []int64) error {
	var articles []models.Article
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&articles).Error; err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}
	for _, a := range articles {
		row := models.ArticleEmbedding{ID: a.ID, Embedding: demoEmbedding(articleText(a))}
		if err := db.WithContext(ctx).Model(&row).Update("embedding", row.Embedding).Error; err != nil {
			return fmt.Errorf("failed to write embedding for article %d: %w", a.ID, err)
		}
	}
	return nil
}

func articleText(a models.Article) string {
	var parts []string
	for _, s := range []*string{a.Title, a.EnglishTLDR} {
		if s != nil {
			parts = append(parts, *s)
		}
	}
	return strings.Join(parts, " ")
}

// demoEmbedding hashes words into a unit vector, so articles sharing words
// come out similar. Real embeddings are written by the ingestion pipeline.
func demoEmbedding(text string) pgvector.Vector {
	vec := make([]float32, models.EmbeddingDimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:()'\"")
		if len(word) < 3 {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%models.EmbeddingDimensions] += 1
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}

// seedLikes has demo fingerprint i like every article whose position is a
// multiple of i+1. Articles a fingerprint already likes are left alone.
func seedLikes(ctx context.Context, likeServiceURL string, ids []int64, likers int, log *logger.Logger) int {
	recorded := 0
	for i := 0; i < likers; i++ {
		c := client.NewClient(likeServiceURL, fmt.Sprintf("seed%d", i), 10*time.Second, log)

		liked, err := c.LikedArticles(ctx, ids)
		if err != nil {
			log.Warn("Like service unavailable, skipping likes: %v", err)
			return recorded
		}

		for pos, id := range ids {
			if pos%(i+1) != 0 {
				continue
			}
			if _, ok := liked[id]; ok {
				continue
			}
			if _, err := c.Toggle(ctx, id); err != nil {
				log.Error("Failed to like article %d as %s: %v", id, c.Fingerprint(), err)
				continue
			}
			recorded++
		}
	}
	return recorded
}
