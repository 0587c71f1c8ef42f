package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jask/monkblog/internal/blog"
	"github.com/jask/monkblog/internal/database"
)

const metaListFetchedAt = "list_fetched_at"

// SnapshotRepo persists the last blogs fetched from the backend so the next
// launch can paint before the network answers.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo returns a repo over a migrated database.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// SaveList replaces the stored list, preserving order.
func (r *SnapshotRepo) SaveList(ctx context.Context, blogs []blog.Blog) error {
	now := database.Now()
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE blog_snapshots SET list_position = NULL`); err != nil {
			return fmt.Errorf("clear list positions: %w", err)
		}
		for i, b := range blogs {
			payload, err := json.Marshal(b)
			if err != nil {
				return fmt.Errorf("encode blog %s: %w", b.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO blog_snapshots(id, payload, list_position, fetched_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
			 payload=excluded.payload,
			 list_position=excluded.list_position,
			 fetched_at=excluded.fetched_at;
			`, b.ID, string(payload), i, now); err != nil {
				return fmt.Errorf("save blog %s: %w", b.ID, err)
			}
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value;
		`, metaListFetchedAt, now.Format(time.RFC3339))
		return err
	})
}

// LoadList returns the stored list and when it was fetched. ok is false when
// no list was ever saved.
func (r *SnapshotRepo) LoadList(ctx context.Context) (blogs []blog.Blog, fetchedAt time.Time, ok bool, err error) {
	var raw string
	err = r.db.QueryRowContext(ctx, `SELECT value FROM snapshot_meta WHERE key = ?`, metaListFetchedAt).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	fetchedAt, err = time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("parse list fetched_at: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM blog_snapshots WHERE list_position IS NOT NULL ORDER BY list_position`)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	defer rows.Close()
	blogs = []blog.Blog{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, time.Time{}, false, err
		}
		var b blog.Blog
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			return nil, time.Time{}, false, fmt.Errorf("decode snapshot: %w", err)
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, false, err
	}
	return blogs, fetchedAt, true, nil
}

// SaveBlog stores one blog without touching its list position.
func (r *SnapshotRepo) SaveBlog(ctx context.Context, b blog.Blog) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode blog %s: %w", b.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO blog_snapshots(id, payload, list_position, fetched_at)
	VALUES (?, ?, NULL, ?)
	ON CONFLICT(id) DO UPDATE SET
	 payload=excluded.payload,
	 fetched_at=excluded.fetched_at;
	`, b.ID, string(payload), database.Now())
	return err
}

// LoadBlog returns the stored blog with id, or nil when absent.
func (r *SnapshotRepo) LoadBlog(ctx context.Context, id string) (*blog.Blog, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM blog_snapshots WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var b blog.Blog
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return &b, nil
}

// Count reports how many blogs are stored.
func (r *SnapshotRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_snapshots`).Scan(&n)
	return n, err
}

// Clear removes every stored blog and the list metadata.
func (r *SnapshotRepo) Clear(ctx context.Context) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, t := range []string{"snapshot_meta", "blog_snapshots"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}
