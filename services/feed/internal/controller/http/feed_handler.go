package http

import (
	"net/http"

	"audslp/pkg/logger"
	"audslp/services/feed/internal/entity"
	"audslp/services/feed/internal/usecase"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase usecase.FeedUseCase
	logger      *logger.Logger
}

func NewFeedHandler(feedUseCase usecase.FeedUseCase, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
		logger:      logger,
	}
}

// GetRSS godoc
// @Summary      RSS feed
// @Description  RSS 2.0 feed of the 50 most recently added articles
// @Tags         feed
// @Produce      xml
// @Success      200  {string}  string
// @Failure      500  {string}  string
// @Router       /rss.xml [get]
func (h *FeedHandler) GetRSS(c *gin.Context) {
	doc, err := h.feedUseCase.RSS(c.Request.Context())
	if err != nil {
		h.logger.Error("Error generating RSS feed: %v", err)
		c.String(http.StatusInternalServerError, "Error generating RSS feed")
		return
	}
	serve(c, doc)
}

// GetSitemap godoc
// @Summary      Sitemap
// @Description  Sitemap with news entries for the latest articles. Lists only the home page when articles are unavailable.
// @Tags         feed
// @Produce      xml
// @Success      200  {string}  string
// @Router       /sitemap.xml [get]
func (h *FeedHandler) GetSitemap(c *gin.Context) {
	serve(c, h.feedUseCase.Sitemap(c.Request.Context()))
}

// GetRobots godoc
// @Summary      robots.txt
// @Tags         feed
// @Produce      plain
// @Success      200  {string}  string
// @Router       /robots.txt [get]
func (h *FeedHandler) GetRobots(c *gin.Context) {
	serve(c, h.feedUseCase.Robots())
}

func serve(c *gin.Context, doc *entity.Document) {
	c.Header("Cache-Control", doc.CacheControl())
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
