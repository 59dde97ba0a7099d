package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/newsdesk/article-ingestor/internal/model"
	"github.com/newsdesk/article-ingestor/internal/repository"
	"github.com/newsdesk/article-ingestor/internal/rss"
	"github.com/newsdesk/article-ingestor/internal/service/limiter"
)

// FeedFetcher downloads and parses a feed.
type FeedFetcher interface {
	FetchEntries(ctx context.Context, feedURL string) ([]rss.Entry, error)
}

// Ingest pulls a bounded batch of feed entries into the store.
type Ingest struct {
	fetcher  FeedFetcher
	repo     repository.ArticleRepository
	limiter  limiter.ArticleLimiter
	classify bool
}

func NewIngest(fetcher FeedFetcher, repo repository.ArticleRepository, limiter limiter.ArticleLimiter, classifyEnabled bool) *Ingest {
	return &Ingest{
		fetcher:  fetcher,
		repo:     repo,
		limiter:  limiter,
		classify: classifyEnabled,
	}
}

// Run processes entries one at a time. The first store or fetch error aborts
// the run; rows written before it stay written.
func (s *Ingest) Run(ctx context.Context, feedURL string) (*model.FetchResult, error) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	logger.Printf("Fetch started feed=%s", feedURL)

	start := time.Now()
	result := &model.FetchResult{}
	defer func() {
		logger.Printf("Fetch completed feed=%s inserted=%d skipped_duplicates=%d duration_ms=%d",
			feedURL, result.Inserted, result.SkippedDuplicates, time.Since(start).Milliseconds())
	}()

	entries, err := s.fetcher.FetchEntries(ctx, feedURL)
	if err != nil {
		logger.Printf("Error fetching feed %s: %v", feedURL, err)
		return nil, err
	}

	batch := s.limiter.Limit(entries)
	logger.Printf("Selected entries: %d of %d", len(batch), len(entries))

	for i, entry := range batch {
		if entry.Link == "" {
			logger.Printf("Skipping entry without link title=%s", entry.Title)
			continue
		}

		exists, err := s.repo.Exists(ctx, entry.Link)
		if err != nil {
			logger.Printf("Error checking article %s: %v", entry.Link, err)
			return nil, fmt.Errorf("checking article %s: %w", entry.Link, err)
		}
		if exists {
			result.SkippedDuplicates++
			continue
		}

		article := model.Article{
			FeedURL:     feedURL,
			Title:       entry.Title,
			URL:         entry.Link,
			Author:      entry.Author,
			Published:   entry.Published,
			Description: entry.Description,
		}
		if s.classify {
			applyClassification(&article)
		}

		inserted, err := s.repo.Insert(ctx, article)
		if err != nil {
			logger.Printf("Error inserting article %s: %v", entry.Link, err)
			return nil, fmt.Errorf("inserting article %s: %w", entry.Link, err)
		}
		if !inserted {
			result.SkippedDuplicates++
			continue
		}
		result.Inserted++
		logger.Printf("Article inserted %d/%d url=%s category=%s", i+1, len(batch), article.URL, article.Category)
	}

	return result, nil
}
