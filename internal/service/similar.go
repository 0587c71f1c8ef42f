package service

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/monkblog/internal/blog"
	"github.com/jask/monkblog/internal/query"
)

// titleDistanceRatio is the largest edit distance, relative to the longer
// title, at which two titles count as the same post.
const titleDistanceRatio = 0.15

// similarTitle reports whether two titles differ only by a few edits once
// case and surrounding space are ignored.
func similarTitle(a, b string) bool {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return float64(levenshtein.ComputeDistance(a, b))/float64(maxlen) <= titleDistanceRatio
}

// SimilarTitles returns the blogs whose title is a near match for title.
func SimilarTitles(title string, blogs []blog.Blog) []blog.Blog {
	var out []blog.Blog
	for _, b := range blogs {
		if similarTitle(title, b.Title) {
			out = append(out, b)
		}
	}
	return out
}

// Similar checks title against the list already in memory, falling back to
// the stored snapshot. It never hits the network.
func (s *BlogService) Similar(ctx context.Context, title string) []blog.Blog {
	if v, ok := s.Cache.Peek(query.ListKey); ok {
		return SimilarTitles(title, v.([]blog.Blog))
	}
	if blogs, ok := s.Snapshot(ctx); ok {
		return SimilarTitles(title, blogs)
	}
	return nil
}

func (s *BlogService) warnSimilar(ctx context.Context, title string) {
	for _, b := range s.Similar(ctx, title) {
		s.log().Warn("new blog title resembles an existing one",
			zap.String("title", title), zap.String("existing_id", b.ID), zap.String("existing_title", b.Title))
	}
}
