package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/newsdesk/article-ingestor/internal/model"
)

type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*Repository, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &Repository{db: db}
	if err := r.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS articles (
			id              TEXT PRIMARY KEY,
			feed_url        TEXT,
			title           TEXT NOT NULL,
			url             TEXT NOT NULL UNIQUE,
			author          TEXT,
			published       TEXT,
			description     TEXT,
			summary         TEXT,
			category        TEXT,
			category_scores TEXT,
			created_at      DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, url string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM articles WHERE url = ?`, url).Scan(&n); err != nil {
		return false, fmt.Errorf("checking article %s: %w", url, err)
	}
	return n > 0, nil
}

func (r *Repository) Insert(ctx context.Context, a model.Article) (bool, error) {
	var scores sql.NullString
	if len(a.CategoryScores) > 0 {
		data, err := json.Marshal(a.CategoryScores)
		if err != nil {
			return false, fmt.Errorf("encoding category scores: %w", err)
		}
		scores = sql.NullString{String: string(data), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (id, feed_url, title, url, author, published, description, summary, category, category_scores, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`,
		uuid.NewString(), nullString(a.FeedURL), a.Title, a.URL, nullString(a.Author), nullString(a.Published),
		nullString(a.Description), nullString(a.Summary), nullString(a.Category), scores, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("inserting article %s: %w", a.URL, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT feed_url, title, url, author, published, description, summary, category, category_scores
		FROM articles
		ORDER BY published DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		var feedURL, author, published, desc, summary, category, scores sql.NullString
		if err := rows.Scan(&feedURL, &a.Title, &a.URL, &author, &published, &desc, &summary, &category, &scores); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.FeedURL = feedURL.String
		a.Author = author.String
		a.Published = published.String
		a.Description = desc.String
		a.Summary = summary.String
		a.Category = category.String
		if scores.Valid && scores.String != "" {
			if err := json.Unmarshal([]byte(scores.String), &a.CategoryScores); err != nil {
				return nil, fmt.Errorf("decoding category scores for %s: %w", a.URL, err)
			}
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Count returns the number of stored articles.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM articles`).Scan(&n)
	return n, err
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
