package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jask/monkblog/internal/blog"
	"github.com/jask/monkblog/internal/database/repository"
	"github.com/jask/monkblog/internal/query"
)

// Backend is the slice of the HTTP client the service needs.
type Backend interface {
	ListBlogs(ctx context.Context) ([]blog.Blog, error)
	GetBlog(ctx context.Context, id string) (blog.Blog, error)
	CreateBlog(ctx context.Context, d blog.Draft) (blog.Blog, error)
}

// BlogService fronts the backend with the query cache and, when configured,
// the on-disk snapshot.
type BlogService struct {
	Backend   Backend
	Cache     *query.Cache
	Snapshots *repository.SnapshotRepo
	Logger    *zap.Logger
}

func (s *BlogService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// List fetches the blog list, sharing in-flight requests.
func (s *BlogService) List(ctx context.Context) ([]blog.Blog, error) {
	v, err := s.Cache.Fetch(ctx, query.ListKey, func(ctx context.Context) (any, error) {
		blogs, err := s.Backend.ListBlogs(ctx)
		if err != nil {
			return nil, err
		}
		if s.Snapshots != nil {
			if err := s.Snapshots.SaveList(ctx, blogs); err != nil {
				s.log().Warn("save list snapshot", zap.Error(err))
			}
		}
		return blogs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]blog.Blog), nil
}

// Get fetches one blog by id.
func (s *BlogService) Get(ctx context.Context, id string) (blog.Blog, error) {
	v, err := s.Cache.Fetch(ctx, query.BlogKey(id), func(ctx context.Context) (any, error) {
		b, err := s.Backend.GetBlog(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.Snapshots != nil {
			if err := s.Snapshots.SaveBlog(ctx, b); err != nil {
				s.log().Warn("save blog snapshot", zap.String("id", id), zap.Error(err))
			}
		}
		return b, nil
	})
	if err != nil {
		return blog.Blog{}, err
	}
	return v.(blog.Blog), nil
}

// Cached returns the cached copy of a blog without touching the network.
func (s *BlogService) Cached(id string) (blog.Blog, bool) {
	v, ok := s.Cache.Peek(query.BlogKey(id))
	if !ok {
		return blog.Blog{}, false
	}
	return v.(blog.Blog), true
}

// Create validates and submits a draft, then invalidates the list.
func (s *BlogService) Create(ctx context.Context, d blog.Draft) (blog.Blog, error) {
	if err := d.Validate(); err != nil {
		return blog.Blog{}, err
	}
	s.warnSimilar(ctx, d.Title)
	created, err := s.Backend.CreateBlog(ctx, d)
	if err != nil {
		return blog.Blog{}, err
	}
	s.Cache.Invalidate(query.ListKey)
	s.log().Info("blog created", zap.String("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// Snapshot returns the list persisted by a previous run, if any.
func (s *BlogService) Snapshot(ctx context.Context) ([]blog.Blog, bool) {
	if s.Snapshots == nil {
		return nil, false
	}
	blogs, fetchedAt, ok, err := s.Snapshots.LoadList(ctx)
	if err != nil {
		s.log().Warn("load list snapshot", zap.Error(err))
		return nil, false
	}
	if ok {
		s.log().Debug("list snapshot loaded", zap.Int("count", len(blogs)), zap.Time("fetched_at", fetchedAt))
	}
	return blogs, ok
}

// Stored returns a blog from the on-disk snapshot.
func (s *BlogService) Stored(ctx context.Context, id string) (blog.Blog, bool, error) {
	if s.Snapshots == nil {
		return blog.Blog{}, false, nil
	}
	b, err := s.Snapshots.LoadBlog(ctx, id)
	if err != nil || b == nil {
		return blog.Blog{}, false, err
	}
	return *b, true, nil
}
