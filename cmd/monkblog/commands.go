package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/monkblog/internal/api"
	"github.com/jask/monkblog/internal/blog"
	"github.com/jask/monkblog/internal/config"
	"github.com/jask/monkblog/internal/output"
	"github.com/jask/monkblog/internal/service"
)

func (e *env) outputOptions() output.Options {
	return output.Options{DateFormat: e.cfg.UI.DateFormat, Location: e.tz}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var format string
	var offline bool
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List all blogs",
		Example: `monkblog list -o json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			var blogs []blog.Blog
			if offline {
				var ok bool
				if blogs, ok = e.blogs.Snapshot(cmd.Context()); !ok {
					return errors.New("no stored snapshot; run without --offline first")
				}
			} else if blogs, err = e.blogs.List(cmd.Context()); err != nil {
				e.log.Error("list blogs", zap.Error(err))
				return err
			}
			return output.WriteList(cmd.OutOrStdout(), f, blogs, e.outputOptions())
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&offline, "offline", false, "read the stored snapshot instead of the API")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string
	var offline bool
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one blog",
		Example: `monkblog show 3 -o yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			id := args[0]
			var b blog.Blog
			if offline {
				var ok bool
				b, ok, err = e.blogs.Stored(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("blog %q not in stored snapshot", id)
				}
			} else if b, err = e.blogs.Get(cmd.Context(), id); err != nil {
				if errors.Is(err, api.ErrNotFound) {
					return fmt.Errorf("blog %q not found", id)
				}
				e.log.Error("get blog", zap.String("id", id), zap.Error(err))
				return err
			}
			return output.WriteBlog(cmd.OutOrStdout(), f, b, e.outputOptions())
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&offline, "offline", false, "read the stored snapshot instead of the API")
	return cmd
}

type createFlags struct {
	title       string
	categories  []string
	description string
	coverImage  string
	content     string
	contentFile string
	format      string
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	fl := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new blog",
		Example: `monkblog create --title "Future of Fintech" --category finance,tech \
  --description "..." --cover-image https://... --content-file post.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(fl.format)
			if err != nil {
				return err
			}
			content := fl.content
			if fl.contentFile != "" {
				if content, err = readContent(cmd.InOrStdin(), fl.contentFile); err != nil {
					return err
				}
			}
			d := blog.NewDraft(fl.title, strings.Join(fl.categories, ","), fl.description, fl.coverImage, content, time.Now())
			if err := d.Validate(); err != nil {
				return err
			}

			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			for _, b := range e.blogs.Similar(cmd.Context(), d.Title) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: title is close to existing blog %s (%q)\n", b.ID, b.Title)
			}
			created, err := e.blogs.Create(cmd.Context(), d)
			if err != nil {
				e.log.Error("create blog", zap.Error(err))
				return err
			}
			return output.WriteBlog(cmd.OutOrStdout(), f, created, e.outputOptions())
		},
	}
	cmd.Flags().StringVar(&fl.title, "title", "", "blog title")
	cmd.Flags().StringSliceVar(&fl.categories, "category", nil, "categories (repeat or comma separate)")
	cmd.Flags().StringVar(&fl.description, "description", "", "short description")
	cmd.Flags().StringVar(&fl.coverImage, "cover-image", "", "cover image URL")
	cmd.Flags().StringVar(&fl.content, "content", "", "blog content")
	cmd.Flags().StringVar(&fl.contentFile, "content-file", "", "read content from a file (- for stdin)")
	cmd.Flags().StringVarP(&fl.format, "output", "o", "table", "output format: table, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	return cmd
}

func readContent(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local blog snapshot",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every stored blog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.Close()

			if e.db == nil {
				return errors.New("snapshot cache is disabled (cache.persist=false)")
			}
			if err := (&service.MaintenanceService{DB: e.db}).Reset(cmd.Context()); err != nil {
				return err
			}
			e.log.Info("snapshot cache cleared", zap.String("path", e.cfg.Cache.Path))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", e.cfg.Cache.Path)
			return err
		},
	})
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(config.Path()); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", config.Path())
			}
			path, err := config.Save(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
