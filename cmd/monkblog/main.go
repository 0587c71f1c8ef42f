package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/monkblog/internal/api"
	"github.com/jask/monkblog/internal/config"
	"github.com/jask/monkblog/internal/database"
	"github.com/jask/monkblog/internal/database/repository"
	"github.com/jask/monkblog/internal/logging"
	"github.com/jask/monkblog/internal/query"
	"github.com/jask/monkblog/internal/service"
	"github.com/jask/monkblog/internal/tui"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	apiURL     string
	logLevel   string
}

// env is everything a command needs once config is resolved.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	db     *sql.DB
	blogs  *service.BlogService
	tz     *time.Location
	client *api.Client
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Sync()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "monkblog",
		Short:        "Browse and write CA Monk blogs from the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			e.log.Info("starting tui", zap.String("api", e.client.BaseURL()))
			p := tea.NewProgram(tui.New(cmd.Context(), e.cfg, tui.Services{Blogs: e.blogs}, e.log, e.tz), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				e.log.Error("tui exited", zap.Error(err))
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/monkblog/config.toml)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "blog API base URL (overrides api.base_url)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newCreateCmd(opts),
		newCacheCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv("MONKBLOG_CONFIG", o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// open resolves config and wires the logger, API client, query cache and
// snapshot store. A snapshot store that fails to open is logged and skipped.
func (o *rootOptions) open() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	client, err := api.New(cfg.API.BaseURL, api.NewHTTPClient(cfg.API.Timeout, logger), logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		log:    logger,
		client: client,
		blogs: &service.BlogService{
			Backend: client,
			Cache:   query.New(cfg.Cache.StaleTime),
			Logger:  logger,
		},
	}

	if cfg.Cache.Persist {
		db, err := database.OpenMigrated(cfg.Cache.Path)
		if err != nil {
			logger.Warn("snapshot cache unavailable", zap.String("path", cfg.Cache.Path), zap.Error(err))
		} else {
			e.db = db
			e.blogs.Snapshots = repository.NewSnapshotRepo(db)
		}
	}

	e.tz, err = time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		logger.Warn("using local timezone", zap.String("timezone", cfg.UI.Timezone), zap.Error(err))
		e.tz = time.Local
	}
	return e, nil
}
