package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MONKBLOG_CONFIG", filepath.Join(home, "config.toml"))
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3001", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, 5, cfg.UI.PageSize)
	require.Equal(t, 100, cfg.UI.WideBreakpoint)
	require.True(t, cfg.Cache.Persist)
	require.Equal(t, filepath.Join(home, ".local", "share", "monkblog", "cache.db"), cfg.Cache.Path)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MONKBLOG_API_BASE_URL", "http://blogs.internal:8080")
	t.Setenv("MONKBLOG_API_TIMEOUT", "3s")
	t.Setenv("MONKBLOG_UI_PAGE_SIZE", "8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://blogs.internal:8080", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, 8, cfg.UI.PageSize)
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	isolate(t)
	t.Setenv("MONKBLOG_UI_PAGE_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.API.BaseURL = "http://127.0.0.1:4000"
	cfg.Cache.Persist = false
	cfg.UI.DateFormat = "2006-01-02"
	path, err := Save(cfg)
	require.NoError(t, err)
	require.Equal(t, Path(), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:4000", got.API.BaseURL)
	require.False(t, got.Cache.Persist)
	require.Equal(t, "2006-01-02", got.UI.DateFormat)
	require.Equal(t, 10*time.Second, got.API.Timeout)
}
