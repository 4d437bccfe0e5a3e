package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"audslp/pkg/logger"
	"audslp/pkg/queue"
	"audslp/services/article/internal/entity"
	"audslp/services/article/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockArticleUseCase is a mock implementation of ArticleUseCase
type MockArticleUseCase struct {
	mock.Mock
}

func (m *MockArticleUseCase) ListArticles(ctx context.Context, q entity.ListQuery) (*entity.ArticlePage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ArticlePage), args.Error(1)
}

func (m *MockArticleUseCase) GetArticle(ctx context.Context, id int64) (*entity.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Article), args.Error(1)
}

func (m *MockArticleUseCase) SimilarArticles(ctx context.Context, id int64, threshold float64, limit int) ([]entity.SimilarArticle, error) {
	args := m.Called(ctx, id, threshold, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SimilarArticle), args.Error(1)
}

func (m *MockArticleUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stats), args.Error(1)
}

func (m *MockArticleUseCase) HandleLikeToggled(event queue.LikeToggledEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

var _ usecase.ArticleUseCase = (*MockArticleUseCase)(nil)

func setupTestRouter(handler *ArticleHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/articles", handler.ListArticles)
	r.GET("/articles/stats", handler.GetStats)
	r.GET("/articles/:id", handler.GetArticle)
	r.GET("/articles/:id/similar", handler.SimilarArticles)
	return r
}

func TestListArticles_ParsesQuery(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	want := entity.ListQuery{
		Source:        "JSLHR",
		Search:        "aphasia",
		SortField:     entity.SortLikesCount,
		SortDirection: entity.Desc,
		Offset:        12,
		Limit:         12,
	}
	mockUseCase.On("ListArticles", mock.Anything, want).Return(&entity.ArticlePage{
		Articles:   []entity.Article{{ID: 3}},
		TotalCount: 13,
		TotalPages: 2,
		Page:       2,
		PageSize:   12,
		Sources:    []string{"JSLHR"},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles?page=2&page_size=12&source=JSLHR&sort_by=likes_count.desc&q=aphasia", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(13), response["total_count"])
	assert.Equal(t, float64(2), response["total_pages"])
	mockUseCase.AssertExpectations(t)
}

func TestListArticles_StoreFailure(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("ListArticles", mock.Anything, mock.Anything).Return(nil, errors.New("pq: too many clients"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestGetArticle(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("GetArticle", mock.Anything, int64(3)).Return(&entity.Article{ID: 3, LikesCount: 7}, nil)
	mockUseCase.On("GetArticle", mock.Anything, int64(404)).Return(nil, entity.ErrArticleNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles/3", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/articles/404", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/articles/abc", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimilarArticles(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("SimilarArticles", mock.Anything, int64(1), 0.75, 3).Return([]entity.SimilarArticle{
		{Article: entity.Article{ID: 7}, Similarity: 0.9},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles/1/similar?threshold=0.75&limit=3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(1), response["count"])
	mockUseCase.AssertExpectations(t)
}

func TestSimilarArticles_Defaults(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("SimilarArticles", mock.Anything, int64(1), usecase.DefaultSimilarityThreshold, usecase.DefaultSimilarLimit).
		Return([]entity.SimilarArticle{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles/1/similar", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestSimilarArticles_BadThreshold(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("SimilarArticles", mock.Anything, int64(1), 2.0, 5).
		Return(nil, errors.Join(entity.ErrInvalidQuery, errors.New("threshold")))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles/1/similar?threshold=high", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/articles/1/similar?threshold=2", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	mockUseCase := new(MockArticleUseCase)
	router := setupTestRouter(NewArticleHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("Stats", mock.Anything).Return(&entity.Stats{TotalArticles: 10, TotalSources: 3, RecentArticles: 2, PopularArticles: 1}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/articles/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_articles":10,"total_sources":3,"recent_articles":2,"popular_articles":1}`, w.Body.String())
}
