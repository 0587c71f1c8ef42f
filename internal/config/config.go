package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API   APIConfig
	Cache CacheConfig
	UI    UIConfig
	Log   LogConfig
}

// APIConfig points at the blog backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the query cache and its on-disk snapshot.
type CacheConfig struct {
	StaleTime time.Duration `mapstructure:"stale_time"`
	Persist   bool          `mapstructure:"persist"`
	Path      string        `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize       int    `mapstructure:"page_size"`
	DateFormat     string `mapstructure:"date_format"`
	Timezone       string `mapstructure:"timezone"`
	WideBreakpoint int    `mapstructure:"wide_breakpoint"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Path returns the config file location: $MONKBLOG_CONFIG or ~/.config/monkblog/config.toml.
func Path() string {
	if p := os.Getenv("MONKBLOG_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "monkblog", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix MONKBLOG_.
// A .env file in the working directory is applied first without overriding
// variables that are already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("MONKBLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !isMissing(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PageSize <= 0 {
		return Config{}, fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	return c, nil
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Save writes the provided config to the config path, creating the directory if needed.
func Save(cfg Config) (string, error) {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("cache.stale_time", cfg.Cache.StaleTime.String())
	v.Set("cache.persist", cfg.Cache.Persist)
	v.Set("cache.path", cfg.Cache.Path)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.wide_breakpoint", cfg.UI.WideBreakpoint)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func setDefaults(v *viper.Viper) {
	home := homeDir()
	v.SetDefault("api.base_url", "http://localhost:3001")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("cache.stale_time", time.Duration(0))
	v.SetDefault("cache.persist", true)
	v.SetDefault("cache.path", filepath.Join(home, ".local", "share", "monkblog", "cache.db"))
	v.SetDefault("ui.page_size", 5)
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.wide_breakpoint", 100)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "monkblog", "monkblog.log"))
	v.SetDefault("log.level", "info")
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}
