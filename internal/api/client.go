package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/monkblog/internal/blog"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("blog not found")

// StatusError is any non-2xx answer from the backend.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to %s: status %d", e.Op, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client talks to the /blogs endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *zap.Logger
}

// New builds a client for baseURL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0, logger)
	}
	return &Client{httpClient: httpClient, baseURL: u, logger: logger}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// ListBlogs fetches every blog.
func (c *Client) ListBlogs(ctx context.Context) ([]blog.Blog, error) {
	var out []blog.Blog
	if err := c.do(ctx, "fetch blogs", http.MethodGet, "blogs", nil, &out); err != nil {
		return nil, err
	}
	for i, b := range out {
		if b.ID == "" {
			return nil, fmt.Errorf("fetch blogs: record %d has no id", i)
		}
	}
	if out == nil {
		out = []blog.Blog{}
	}
	return out, nil
}

// GetBlog fetches one blog. A missing id yields an error matching ErrNotFound.
func (c *Client) GetBlog(ctx context.Context, id string) (blog.Blog, error) {
	if strings.TrimSpace(id) == "" {
		return blog.Blog{}, fmt.Errorf("fetch blog: empty id")
	}
	var out blog.Blog
	if err := c.do(ctx, "fetch blog", http.MethodGet, "blogs/"+url.PathEscape(id), nil, &out); err != nil {
		return blog.Blog{}, err
	}
	if out.ID == "" {
		return blog.Blog{}, fmt.Errorf("fetch blog %s: response has no id", id)
	}
	return out, nil
}

// CreateBlog posts a draft and returns the stored blog with its assigned id.
func (c *Client) CreateBlog(ctx context.Context, d blog.Draft) (blog.Blog, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return blog.Blog{}, fmt.Errorf("encode draft: %w", err)
	}
	var out blog.Blog
	if err := c.do(ctx, "create blog", http.MethodPost, "blogs", body, &out); err != nil {
		return blog.Blog{}, err
	}
	if out.ID == "" {
		return blog.Blog{}, fmt.Errorf("create blog: response has no id")
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, rel string, body []byte, into any) error {
	target := strings.TrimRight(c.baseURL.String(), "/") + "/" + rel

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		c.logger.Warn("backend rejected request", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
