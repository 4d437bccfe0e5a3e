// Package client talks to the like service and drives like buttons through
// their toggle states.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"audslp/pkg/fingerprint"
	"audslp/pkg/logger"
)

var (
	ErrNotFound        = errors.New("article not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransient       = errors.New("like service unavailable")
)

type Status struct {
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int64 `json:"total_likes"`
}

// Flipped is the optimistic status after one toggle.
func (s Status) Flipped() Status {
	if s.IsLiked {
		total := s.TotalLikes - 1
		if total < 0 {
			total = 0
		}
		return Status{IsLiked: false, TotalLikes: total}
	}
	return Status{IsLiked: true, TotalLikes: s.TotalLikes + 1}
}

// APIError is a non-2xx response. It matches the sentinel of its code with
// errors.Is.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("like service returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == "not_found"
	case ErrInvalidArgument:
		return e.Code == "invalid_argument"
	case ErrTransient:
		return e.Code != "not_found" && e.Code != "invalid_argument"
	}
	return false
}

// Client calls the like API on behalf of one fingerprint.
type Client struct {
	baseURL     string
	fingerprint string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(baseURL, fingerprint string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		fingerprint: fingerprint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

func (c *Client) Fingerprint() string {
	return c.fingerprint
}

type statusResponse struct {
	ArticleID int64 `json:"article_id"`
	Status
}

func (c *Client) GetStatus(ctx context.Context, articleID int64) (Status, error) {
	var resp statusResponse
	path := "/api/v1/likes/articles/" + strconv.FormatInt(articleID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Status{}, err
	}
	return resp.Status, nil
}

func (c *Client) Toggle(ctx context.Context, articleID int64) (Status, error) {
	var resp statusResponse
	path := "/api/v1/likes/articles/" + strconv.FormatInt(articleID, 10) + "/toggle"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return Status{}, err
	}
	return resp.Status, nil
}

// LikedArticles returns the ids among articleIDs this fingerprint liked.
func (c *Client) LikedArticles(ctx context.Context, articleIDs []int64) (map[int64]struct{}, error) {
	liked := make(map[int64]struct{})
	if len(articleIDs) == 0 || c.fingerprint == "" {
		return liked, nil
	}

	body := map[string][]int64{"article_ids": articleIDs}
	var resp struct {
		LikedArticleIDs []int64 `json:"liked_article_ids"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/likes/batch", body, &resp); err != nil {
		return nil, err
	}
	for _, id := range resp.LikedArticleIDs {
		liked[id] = struct{}{}
	}
	return liked, nil
}

// ToggleControl runs one toggle for ctrl: optimistic flip, request, then
// commit or rollback. A click while pending returns ErrTogglePending and
// sends nothing.
func (c *Client) ToggleControl(ctx context.Context, ctrl *Control, articleID int64) (Status, error) {
	if _, err := ctrl.Begin(); err != nil {
		return ctrl.Status(), err
	}

	committed, err := c.Toggle(ctx, articleID)
	if err != nil {
		c.logger.Warn("Like toggle on article %d failed, rolling back: %v", articleID, err)
		_ = ctrl.Fail(err)
		return ctrl.Status(), err
	}

	_ = ctrl.Succeed(committed)
	return committed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.fingerprint != "" {
		req.Header.Set(fingerprint.HeaderFingerprint, c.fingerprint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Error
		}
		if apiErr.Code == "" {
			apiErr.Code = codeForStatus(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrTransient, err)
	}
	return nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest:
		return "invalid_argument"
	default:
		return "transient"
	}
}
