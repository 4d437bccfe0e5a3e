package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"audslp/pkg/fingerprint"
	"audslp/pkg/logger"
	"audslp/pkg/middleware"
	"audslp/services/like/internal/entity"
	"audslp/services/like/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLikeUseCase is a mock implementation of LikeUseCase
type MockLikeUseCase struct {
	mock.Mock
}

func (m *MockLikeUseCase) ResolveLikeState(ctx context.Context, articleID int64, fingerprint string) (entity.LikeStatus, error) {
	args := m.Called(ctx, articleID, fingerprint)
	return args.Get(0).(entity.LikeStatus), args.Error(1)
}

func (m *MockLikeUseCase) ResolveBatchLikeState(ctx context.Context, articleIDs []int64, fingerprint string) (map[int64]struct{}, error) {
	args := m.Called(ctx, articleIDs, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]struct{}), args.Error(1)
}

func (m *MockLikeUseCase) ToggleLike(ctx context.Context, articleID int64, fingerprint, userAgent string) (entity.LikeStatus, error) {
	args := m.Called(ctx, articleID, fingerprint, userAgent)
	return args.Get(0).(entity.LikeStatus), args.Error(1)
}

var _ usecase.LikeUseCase = (*MockLikeUseCase)(nil)

func setupTestRouter(handler *LikeHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.FingerprintMiddleware())
	r.GET("/likes/articles/:article_id", handler.GetLikeStatus)
	r.POST("/likes/articles/:article_id/toggle", handler.ToggleLike)
	r.POST("/likes/batch", handler.BatchLikeStatus)
	r.GET("/likes/fingerprint", handler.GetFingerprint)
	return r
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestGetLikeStatus_Success(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("ResolveLikeState", mock.Anything, int64(42), "abc123").
		Return(entity.LikeStatus{IsLiked: false, TotalLikes: 5}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/likes/articles/42", nil)
	req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, LikeStatusResponse{ArticleID: 42, IsLiked: false, TotalLikes: 5}, decode[LikeStatusResponse](t, w))
	mockUseCase.AssertExpectations(t)
}

func TestGetLikeStatus_DerivesFingerprintFromSignals(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	req, _ := http.NewRequest("GET", "/likes/articles/42", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "zh-TW")
	req.Header.Set(fingerprint.HeaderScreen, "1920x1080")
	req.Header.Set(fingerprint.HeaderTimezoneOffset, "-480")
	req.Header.Set(fingerprint.HeaderStorage, "session,local")
	req.Header.Set(fingerprint.HeaderCanvas, "data:image/png;base64,AAA")

	mockUseCase.On("ResolveLikeState", mock.Anything, int64(42), "i5j1de").
		Return(entity.LikeStatus{IsLiked: true, TotalLikes: 1}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestGetLikeStatus_InvalidID(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	for _, path := range []string{"/likes/articles/abc", "/likes/articles/0", "/likes/articles/-3"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "invalid_argument", decode[ErrorResponse](t, w).Code)
	}
	mockUseCase.AssertNotCalled(t, "ResolveLikeState", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleLike_Success(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("ToggleLike", mock.Anything, int64(42), "abc123", "Mozilla/5.0").
		Return(entity.LikeStatus{IsLiked: true, TotalLikes: 6}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/likes/articles/42/toggle", nil)
	req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, LikeStatusResponse{ArticleID: 42, IsLiked: true, TotalLikes: 6}, decode[LikeStatusResponse](t, w))
	mockUseCase.AssertExpectations(t)
}

func TestToggleLike_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", entity.NewError("toggle like", entity.ErrNotFound, nil), http.StatusNotFound, "not_found"},
		{"invalid argument", entity.NewError("toggle like", entity.ErrInvalidArgument, nil), http.StatusBadRequest, "invalid_argument"},
		{"transient", entity.NewError("toggle like", entity.ErrTransient, errors.New("pq: connection refused")), http.StatusServiceUnavailable, "transient"},
		{"unclassified", errors.New("boom"), http.StatusServiceUnavailable, "transient"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockUseCase := new(MockLikeUseCase)
			router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

			mockUseCase.On("ToggleLike", mock.Anything, int64(7), "abc123", mock.Anything).
				Return(entity.LikeStatus{}, tc.err)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/likes/articles/7/toggle", nil)
			req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			body := decode[ErrorResponse](t, w)
			assert.Equal(t, tc.code, body.Code)
			assert.NotContains(t, body.Error, "pq:")
		})
	}
}

func TestBatchLikeStatus_Success(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	ids := []int64{3, 1, 2}
	mockUseCase.On("ResolveBatchLikeState", mock.Anything, ids, "abc123").
		Return(map[int64]struct{}{1: {}, 3: {}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/likes/batch", bytes.NewBufferString(`{"article_ids":[3,1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3, 1}, decode[BatchLikeResponse](t, w).LikedArticleIDs)
	mockUseCase.AssertExpectations(t)
}

func TestBatchLikeStatus_EmptyList(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("ResolveBatchLikeState", mock.Anything, []int64{}, "abc123").
		Return(map[int64]struct{}{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/likes/batch", bytes.NewBufferString(`{"article_ids":[]}`))
	req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked_article_ids":[]}`, w.Body.String())
}

func TestBatchLikeStatus_BadRequests(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	tooMany := BatchLikeRequest{ArticleIDs: make([]int64, MaxBatchSize+1)}
	tooManyBody, _ := json.Marshal(tooMany)

	for _, body := range []string{`not json`, `{"article_ids":"1,2"}`, string(tooManyBody)} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/likes/batch", bytes.NewBufferString(body))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	mockUseCase.AssertNotCalled(t, "ResolveBatchLikeState", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchLikeStatus_StoreFailure(t *testing.T) {
	mockUseCase := new(MockLikeUseCase)
	router := setupTestRouter(NewLikeHandler(mockUseCase, logger.NewNop()))

	mockUseCase.On("ResolveBatchLikeState", mock.Anything, []int64{1}, "abc123").
		Return(nil, entity.NewError("resolve batch like state", entity.ErrTransient, errors.New("timeout")))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/likes/batch", bytes.NewBufferString(`{"article_ids":[1]}`))
	req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetFingerprint(t *testing.T) {
	router := setupTestRouter(NewLikeHandler(new(MockLikeUseCase), logger.NewNop()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/likes/fingerprint", nil)
	req.Header.Set(fingerprint.HeaderFingerprint, "abc123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"fingerprint":"abc123"}`, w.Body.String())
}

func TestGetFingerprint_NoClientIdentity(t *testing.T) {
	router := setupTestRouter(NewLikeHandler(new(MockLikeUseCase), logger.NewNop()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/likes/fingerprint", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_argument", decode[ErrorResponse](t, w).Code)
}
