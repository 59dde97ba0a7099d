package limiter

import "github.com/newsdesk/article-ingestor/internal/rss"

// ArticleLimiter defines the interface for limiting feed entries before ingestion
type ArticleLimiter interface {
	Limit(entries []rss.Entry) []rss.Entry
}
