package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/monkblog/internal/blog"
)

const twoBlogs = `[
  {"id":"1","title":"Future of Fintech","category":["FINANCE","TECH"],"description":"d1","coverImage":"https://img/1.jpg","content":"c1","date":"2026-01-11T09:12:45.120Z"},
  {"id":"2","title":"Remote Work","category":["CAREER"],"description":"d2","coverImage":"https://img/2.jpg","content":"c2","date":"2026-01-10"}
]`

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	logger := zaptest.NewLogger(t)
	c, err := New(srv.URL, NewHTTPClient(2*time.Second, logger), logger)
	require.NoError(t, err)
	return c
}

func TestListBlogs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/blogs", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, twoBlogs)
	}))
	t.Cleanup(srv.Close)

	blogs, err := newClient(t, srv).ListBlogs(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	require.Equal(t, "Future of Fintech", blogs[0].Title)
	require.Equal(t, []string{"FINANCE", "TECH"}, blogs[0].Category)
	require.Equal(t, "https://img/1.jpg", blogs[0].CoverImage)
	require.Equal(t, 2026, blogs[1].Date.Year())
}

func TestListBlogsEmptyIsNonNil(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	blogs, err := newClient(t, srv).ListBlogs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, blogs)
	require.Empty(t, blogs)
}

func TestListBlogsRejectsRecordWithoutID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"title":"orphan","category":[],"date":"2026-01-01"}]`)
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(t, srv).ListBlogs(context.Background())
	require.Error(t, err)
}

func TestNon2xxIsStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(t, srv).ListBlogs(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusInternalServerError, se.Code)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Equal(t, "failed to fetch blogs: status 500", err.Error())
}

func TestGetBlogNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/blogs/missing", r.URL.Path)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(t, srv).GetBlog(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetBlogEscapesID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/blogs/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"id":"a/b","title":"slash","category":["x"],"date":"2026-01-01"}`)
	}))
	t.Cleanup(srv.Close)

	b, err := newClient(t, srv).GetBlog(context.Background(), "a/b")
	require.NoError(t, err)
	require.Equal(t, "slash", b.Title)
}

func TestCreateBlogPostsDraftWithoutID(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/blogs", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotContains(t, body, "id")
		for _, k := range []string{"title", "category", "description", "coverImage", "content", "date"} {
			require.Contains(t, body, k)
		}
		body["id"] = "42"
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)

	d := blog.NewDraft("New", "Tech", "desc", "https://img", "content", time.Now())
	created, err := newClient(t, srv).CreateBlog(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, "42", created.ID)
	require.Equal(t, "New", created.Title)
	require.Equal(t, int32(1), calls.Load())
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("localhost", nil, nil)
	require.Error(t, err)
}
