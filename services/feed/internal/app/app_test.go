package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"audslp/pkg/config"
	"audslp/pkg/logger"
	"audslp/pkg/models"
	"audslp/pkg/testdb"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRouter_ServesDocumentsFromDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t)
	testdb.SeedArticle(t, db, models.Article{
		ID:              1,
		Title:           strPtr("Cochlear implant outcomes"),
		TitleTranslated: strPtr("人工電子耳成效"),
		TLDR:            strPtr("摘要"),
		Source:          strPtr("Ear and Hearing"),
		CreatedAt:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	cfg := &config.Config{
		SiteBaseURL: "https://audslp.example",
		SiteName:    "聽語期刊速報",
	}
	router := NewRouter(NewFeedUseCase(cfg, logger.NewNop(), db), logger.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rss.xml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	feed, err := gofeed.NewParser().ParseString(w.Body.String())
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "人工電子耳成效", feed.Items[0].Title)
	assert.Equal(t, "https://audslp.example/article/1", feed.Items[0].Link)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<loc>https://audslp.example/article/1</loc>")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "User-agent: *"))
}

func TestRouter_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(NewFeedUseCase(&config.Config{SiteBaseURL: "https://audslp.example"}, logger.NewNop(), testdb.Open(t)), logger.NewNop())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `service="feed"`)
}
