package http

import (
	"errors"
	"net/http"
	"strconv"

	"audslp/pkg/logger"
	"audslp/services/article/internal/entity"
	"audslp/services/article/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleUseCase usecase.ArticleUseCase
	logger         *logger.Logger
}

func NewArticleHandler(articleUseCase usecase.ArticleUseCase, logger *logger.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleUseCase: articleUseCase,
		logger:         logger,
	}
}

// ListArticles godoc
// @Summary      List articles
// @Description  Paged article list with optional source filter, search and sorting
// @Tags         articles
// @Produce      json
// @Param        page query int false "Page number, from 1"
// @Param        page_size query int false "Articles per page (max 100)"
// @Param        source query string false "Journal source"
// @Param        sort_by query string false "published.desc, published.asc, created_at.desc, title or likes_count.desc"
// @Param        q query string false "Search title and summaries"
// @Success      200  {object}  entity.ArticlePage
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	q := entity.ParseListQuery(
		c.Query("page"),
		c.Query("page_size"),
		c.Query("source"),
		c.Query("sort_by"),
		c.Query("q"),
	)

	page, err := h.articleUseCase.ListArticles(c.Request.Context(), q)
	if err != nil {
		h.renderError(c, err, "Failed to load articles")
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetArticle godoc
// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200  {object}  entity.Article
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	article, err := h.articleUseCase.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err, "Failed to load article")
		return
	}

	c.JSON(http.StatusOK, article)
}

// SimilarArticles godoc
// @Summary      Articles similar to an article
// @Description  Ranked by embedding similarity, most similar first
// @Tags         articles
// @Produce      json
// @Param        id path int true "Article ID"
// @Param        threshold query number false "Minimum similarity 0..1 (default 0.6)"
// @Param        limit query int false "Maximum results (default 5, max 20)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /articles/{id}/similar [get]
func (h *ArticleHandler) SimilarArticles(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	threshold := usecase.DefaultSimilarityThreshold
	if v := c.Query("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
			return
		}
		threshold = parsed
	}

	limit := usecase.DefaultSimilarLimit
	if v := c.Query("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}

	similar, err := h.articleUseCase.SimilarArticles(c.Request.Context(), id, threshold, limit)
	if err != nil {
		h.renderError(c, err, "Failed to load similar articles")
		return
	}

	c.JSON(http.StatusOK, gin.H{"article_id": id, "articles": similar, "count": len(similar)})
}

// GetStats godoc
// @Summary      Article statistics
// @Description  Totals, distinct sources, articles added in the last 7 days and articles with likes
// @Tags         articles
// @Produce      json
// @Success      200  {object}  entity.Stats
// @Failure      500  {object}  map[string]string
// @Router       /articles/stats [get]
func (h *ArticleHandler) GetStats(c *gin.Context) {
	stats, err := h.articleUseCase.Stats(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Failed to load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return 0, false
	}
	return id, true
}

func (h *ArticleHandler) renderError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, entity.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
	case errors.Is(err, entity.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("%s: %v", message, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
