package http

import (
	"errors"
	"net/http"
	"strconv"

	"audslp/pkg/logger"
	"audslp/pkg/middleware"
	"audslp/services/like/internal/entity"
	"audslp/services/like/internal/usecase"

	"github.com/gin-gonic/gin"
)

// MaxBatchSize bounds the ids accepted by one batch lookup.
const MaxBatchSize = 100

type LikeHandler struct {
	likeUseCase usecase.LikeUseCase
	logger      *logger.Logger
}

func NewLikeHandler(likeUseCase usecase.LikeUseCase, logger *logger.Logger) *LikeHandler {
	return &LikeHandler{
		likeUseCase: likeUseCase,
		logger:      logger,
	}
}

type LikeStatusResponse struct {
	ArticleID  int64 `json:"article_id"`
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int64 `json:"total_likes"`
}

type BatchLikeRequest struct {
	ArticleIDs []int64 `json:"article_ids"`
}

type BatchLikeResponse struct {
	LikedArticleIDs []int64 `json:"liked_article_ids"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// GetLikeStatus godoc
// @Summary      Get like state of an article
// @Description  Whether the caller's fingerprint likes the article, plus the article's total likes
// @Tags         likes
// @Produce      json
// @Param        article_id path int true "Article ID"
// @Param        X-Fingerprint header string false "Client-computed fingerprint"
// @Success      200  {object}  LikeStatusResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /likes/articles/{article_id} [get]
func (h *LikeHandler) GetLikeStatus(c *gin.Context) {
	articleID, ok := h.articleID(c)
	if !ok {
		return
	}

	status, err := h.likeUseCase.ResolveLikeState(c.Request.Context(), articleID, c.GetString(middleware.ContextFingerprint))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, LikeStatusResponse{
		ArticleID:  articleID,
		IsLiked:    status.IsLiked,
		TotalLikes: status.TotalLikes,
	})
}

// ToggleLike godoc
// @Summary      Toggle like on an article
// @Description  Likes the article if the caller has not liked it yet, unlikes it otherwise. Returns the committed state.
// @Tags         likes
// @Produce      json
// @Param        article_id path int true "Article ID"
// @Param        X-Fingerprint header string false "Client-computed fingerprint"
// @Success      200  {object}  LikeStatusResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      429  {object}  map[string]string
// @Failure      503  {object}  ErrorResponse
// @Router       /likes/articles/{article_id}/toggle [post]
func (h *LikeHandler) ToggleLike(c *gin.Context) {
	articleID, ok := h.articleID(c)
	if !ok {
		return
	}

	status, err := h.likeUseCase.ToggleLike(
		c.Request.Context(),
		articleID,
		c.GetString(middleware.ContextFingerprint),
		c.Request.UserAgent(),
	)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, LikeStatusResponse{
		ArticleID:  articleID,
		IsLiked:    status.IsLiked,
		TotalLikes: status.TotalLikes,
	})
}

// BatchLikeStatus godoc
// @Summary      Liked articles among a list
// @Description  Returns the subset of article_ids the caller's fingerprint has liked
// @Tags         likes
// @Accept       json
// @Produce      json
// @Param        request body BatchLikeRequest true "Article IDs"
// @Param        X-Fingerprint header string false "Client-computed fingerprint"
// @Success      200  {object}  BatchLikeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /likes/batch [post]
func (h *LikeHandler) BatchLikeStatus(c *gin.Context) {
	var req BatchLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "invalid_argument"})
		return
	}
	if len(req.ArticleIDs) > MaxBatchSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "At most " + strconv.Itoa(MaxBatchSize) + " article ids per request",
			Code:  "invalid_argument",
		})
		return
	}

	liked, err := h.likeUseCase.ResolveBatchLikeState(c.Request.Context(), req.ArticleIDs, c.GetString(middleware.ContextFingerprint))
	if err != nil {
		h.renderError(c, err)
		return
	}

	// Keep the request order so responses are stable.
	ids := make([]int64, 0, len(liked))
	for _, id := range req.ArticleIDs {
		if _, ok := liked[id]; ok {
			ids = append(ids, id)
			delete(liked, id)
		}
	}

	c.JSON(http.StatusOK, BatchLikeResponse{LikedArticleIDs: ids})
}

// GetFingerprint godoc
// @Summary      Resolve the caller's fingerprint
// @Description  Returns the anonymous identity the server derives for this client
// @Tags         likes
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /likes/fingerprint [get]
func (h *LikeHandler) GetFingerprint(c *gin.Context) {
	fp := c.GetString(middleware.ContextFingerprint)
	if fp == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Fingerprint not available", Code: "invalid_argument"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fingerprint": fp})
}

func (h *LikeHandler) articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("article_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid article id", Code: "invalid_argument"})
		return 0, false
	}
	return id, true
}

func (h *LikeHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Article not found", Code: entity.KindName(err)})
	case errors.Is(err, entity.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid argument", Code: entity.KindName(err)})
	default:
		h.logger.Error("Like request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Like service temporarily unavailable", Code: "transient"})
	}
}
