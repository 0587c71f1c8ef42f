package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/monkblog/internal/blog"
)

const seedJSON = `[
  {"id":"1","title":"Future of Fintech","category":["FINANCE","TECH"],"description":"d1","coverImage":"https://img/1.jpg","content":"c1","date":"2026-01-11T09:12:45.120Z"},
  {"id":"2","title":"Remote Work","category":["CAREER"],"description":"d2","coverImage":"https://img/2.jpg","content":"c2","date":"2026-01-10T00:00:00.000Z"}
]`

type backend struct {
	mu    sync.Mutex
	posts []map[string]any
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/blogs":
		_, _ = w.Write([]byte(seedJSON))
	case r.Method == http.MethodGet && r.URL.Path == "/blogs/2":
		_, _ = w.Write([]byte(`{"id":"2","title":"Remote Work","category":["CAREER"],"description":"d2","coverImage":"https://img/2.jpg","content":"c2","date":"2026-01-10"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/blogs":
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		b.posts = append(b.posts, raw)
		created := map[string]any{"id": "3"}
		for k, v := range raw {
			created[k] = v
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *backend) postCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.posts)
}

// setup isolates config, cache and log paths under a temp dir and starts a fake API.
func setup(t *testing.T) (*backend, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("MONKBLOG_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("MONKBLOG_CACHE_PATH", filepath.Join(dir, "cache.db"))
	t.Setenv("MONKBLOG_LOG_PATH", filepath.Join(dir, "monkblog.log"))
	t.Setenv("MONKBLOG_UI_TIMEZONE", "UTC")

	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader("from stdin\n"))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestListJSON(t *testing.T) {
	_, url := setup(t)

	out, err := run(t, "--api-url", url, "list", "-o", "json")
	require.NoError(t, err)

	var got []blog.Blog
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	require.Equal(t, "Future of Fintech", got[0].Title)
}

func TestListTableThenOffline(t *testing.T) {
	_, url := setup(t)

	out, err := run(t, "--api-url", url, "list")
	require.NoError(t, err)
	require.Contains(t, out, "Remote Work")
	require.Contains(t, out, "10/01/2026")

	// The API is not consulted for --offline.
	out, err = run(t, "--api-url", "http://127.0.0.1:1", "list", "--offline", "-o", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "title: Future of Fintech")

	_, err = run(t, "cache", "clear")
	require.NoError(t, err)

	_, err = run(t, "--api-url", "http://127.0.0.1:1", "list", "--offline")
	require.Error(t, err)
}

func TestShow(t *testing.T) {
	_, url := setup(t)

	out, err := run(t, "--api-url", url, "show", "2")
	require.NoError(t, err)
	require.Contains(t, out, "Remote Work")
	require.Contains(t, out, "https://img/2.jpg")

	_, err = run(t, "--api-url", url, "show", "99")
	require.ErrorContains(t, err, `blog "99" not found`)

	out, err = run(t, "show", "2", "--offline", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"coverImage": "https://img/2.jpg"`)
}

func TestCreateSendsOneRequest(t *testing.T) {
	b, url := setup(t)

	out, err := run(t, "--api-url", url, "create",
		"--title", "New One",
		"--category", "tech, ai",
		"--category", "career",
		"--description", "desc",
		"--cover-image", "https://img/3.jpg",
		"--content-file", "-",
		"-o", "json",
	)
	require.NoError(t, err)
	require.Equal(t, 1, b.postCount())
	require.Contains(t, out, `"id": "3"`)

	post := b.posts[0]
	require.NotContains(t, post, "id")
	require.Equal(t, []any{"tech", "ai", "career"}, post["category"])
	require.Equal(t, "from stdin", post["content"])
}

func TestCreateRejectsMissingFields(t *testing.T) {
	b, url := setup(t)

	_, err := run(t, "--api-url", url, "create", "--category", "tech", "--description", "d", "--cover-image", "c", "--content", "x")
	require.ErrorContains(t, err, "Title is required")
	require.Zero(t, b.postCount())
}

func TestConfigInit(t *testing.T) {
	setup(t)

	out, err := run(t, "--api-url", "http://blogs.internal:8080", "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, "config.toml")

	data, err := os.ReadFile(os.Getenv("MONKBLOG_CONFIG"))
	require.NoError(t, err)
	require.Contains(t, string(data), "http://blogs.internal:8080")

	_, err = run(t, "config", "init")
	require.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, url := setup(t)

	_, err := run(t, "--api-url", url, "list", "-o", "xml")
	require.ErrorContains(t, err, "unknown output format")
}
