package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/lib/pq"

	"github.com/newsdesk/article-ingestor/internal/model"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id BIGSERIAL PRIMARY KEY,
    feed_url TEXT,
    title TEXT NOT NULL,
    url TEXT NOT NULL UNIQUE,
    author TEXT,
    published TEXT,
    description TEXT,
    summary TEXT,
    category TEXT,
    category_scores JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published DESC);
`

type Repository struct{ db *sql.DB }

// Open connects to dsn, forcing sslMode unless the DSN already names one,
// and makes sure the articles table exists.
func Open(ctx context.Context, dsn, sslMode string) (*Repository, error) {
	dsn, err := WithSSLMode(dsn, sslMode)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	r := New(db)
	if err := r.Ensure(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func New(db *sql.DB) *Repository { return &Repository{db: db} }

func (r *Repository) Ensure(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, articleURL string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`, articleURL).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking article %s: %w", articleURL, err)
	}
	return exists, nil
}

func (r *Repository) Insert(ctx context.Context, a model.Article) (bool, error) {
	scores, err := encodeScores(a.CategoryScores)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO articles
    (feed_url, title, url, author, published, description, summary, category, category_scores)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (url) DO NOTHING`,
		nullString(a.FeedURL), a.Title, a.URL, nullString(a.Author), nullString(a.Published),
		nullString(a.Description), nullString(a.Summary), nullString(a.Category), scores,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("inserting article %s: %w", a.URL, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT feed_url, title, url, author, published, description, summary, category, category_scores
FROM articles ORDER BY published DESC NULLS LAST, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return scanArticles(rows)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()
	out := []model.Article{}
	for rows.Next() {
		var a model.Article
		var feedURL, author, published, desc, summary, category sql.NullString
		var scores []byte
		if err := rows.Scan(&feedURL, &a.Title, &a.URL, &author, &published, &desc, &summary, &category, &scores); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.FeedURL = feedURL.String
		a.Author = author.String
		a.Published = published.String
		a.Description = desc.String
		a.Summary = summary.String
		a.Category = category.String
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &a.CategoryScores); err != nil {
				return nil, fmt.Errorf("decoding category scores for %s: %w", a.URL, err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// WithSSLMode adds sslmode to a URL-style DSN unless it is already present.
func WithSSLMode(dsn, mode string) (string, error) {
	if mode == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("parsing DATABASE_URL: unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", mode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeScores(scores map[string]float64) (interface{}, error) {
	if len(scores) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("encoding category scores: %w", err)
	}
	return string(data), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
