package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/gaurav-prasanna/townpipe/core"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	kind  TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	body  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS post_meta (
	post_id INTEGER NOT NULL REFERENCES posts(id),
	key     TEXT NOT NULL,
	value   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (post_id, key)
);
`

// Ensure SQLiteStore implements the interface.
var _ core.ContentStore = (*SQLiteStore)(nil)

// SQLiteStore is a core.ContentStore backed by a SQLite file.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create inserts a post and returns its row id.
func (s *SQLiteStore) Create(ctx context.Context, kind core.Kind, title, body string) (string, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (kind, title, body) VALUES (?, ?, ?)`, string(kind), title, body)
	if err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("post id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// SetMetadata upserts key on an existing post.
func (s *SQLiteStore) SetMetadata(ctx context.Context, id, key, value string) error {
	if err := s.exists(ctx, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO post_meta (post_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (post_id, key) DO UPDATE SET value = excluded.value`, id, key, value)
	if err != nil {
		return fmt.Errorf("upsert meta %s of %s: %w", key, id, err)
	}
	return nil
}

// GetMetadata returns the value of key, or "" when it was never set.
func (s *SQLiteStore) GetMetadata(ctx context.Context, id, key string) (string, error) {
	if err := s.exists(ctx, id); err != nil {
		return "", err
	}
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM post_meta WHERE post_id = ? AND key = ?`, id, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select meta %s of %s: %w", key, id, err)
	}
	return value, nil
}

// Get retrieves a post by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := s.db.GetContext(ctx, &p, `SELECT CAST(id AS TEXT) AS id, kind, title, body FROM posts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select post %s: %w", id, err)
	}
	return &p, nil
}

// List returns every post of kind in creation order.
func (s *SQLiteStore) List(ctx context.Context, kind core.Kind) ([]Post, error) {
	posts := make([]Post, 0)
	err := s.db.SelectContext(ctx, &posts,
		`SELECT CAST(id AS TEXT) AS id, kind, title, body FROM posts WHERE kind = ? ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("select %s posts: %w", kind, err)
	}
	return posts, nil
}

func (s *SQLiteStore) exists(ctx context.Context, id string) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("lookup post %s: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
