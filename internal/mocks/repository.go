package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/newsdesk/article-ingestor/internal/model"
)

// Mock Article Repository
type MockArticleRepo struct {
	mu       sync.Mutex
	articles []model.Article
	byURL    map[string]bool

	// Conflicts lists urls that Exists misses but Insert rejects, as when
	// another writer stores the url between the two calls.
	Conflicts map[string]bool

	ExistsErr error
	InsertErr error
	ListErr   error

	InsertCalls int
	Closed      bool
}

func NewMockArticleRepo(seed ...model.Article) *MockArticleRepo {
	m := &MockArticleRepo{byURL: make(map[string]bool)}
	for _, a := range seed {
		m.articles = append(m.articles, a)
		m.byURL[a.URL] = true
	}
	return m
}

func (m *MockArticleRepo) Exists(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.byURL[url], nil
}

func (m *MockArticleRepo) Insert(ctx context.Context, article model.Article) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertErr != nil {
		return false, m.InsertErr
	}
	if m.byURL[article.URL] || m.Conflicts[article.URL] {
		return false, nil
	}
	if m.byURL == nil {
		m.byURL = make(map[string]bool)
	}
	m.byURL[article.URL] = true
	m.articles = append(m.articles, article)
	return true, nil
}

func (m *MockArticleRepo) List(ctx context.Context, limit int) ([]model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	out := make([]model.Article, len(m.articles))
	for i := range m.articles {
		out[len(out)-1-i] = m.articles[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published > out[j].Published
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockArticleRepo) Close() error {
	m.Closed = true
	return nil
}

// Stored returns every stored article in insertion order.
func (m *MockArticleRepo) Stored() []model.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Article(nil), m.articles...)
}
