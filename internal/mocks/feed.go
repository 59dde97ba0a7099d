package mocks

import (
	"context"

	"github.com/newsdesk/article-ingestor/internal/rss"
)

// Mock Feed Fetcher
type MockFeedFetcher struct {
	Entries []rss.Entry
	Err     error

	RequestedURLs []string
}

func (m *MockFeedFetcher) FetchEntries(ctx context.Context, feedURL string) ([]rss.Entry, error) {
	m.RequestedURLs = append(m.RequestedURLs, feedURL)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}
