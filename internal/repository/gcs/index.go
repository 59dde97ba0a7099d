package gcs

import (
	"sort"
	"time"

	"github.com/newsdesk/article-ingestor/internal/model"
)

type indexEntry struct {
	Article   model.Article `json:"article"`
	CreatedAt time.Time     `json:"created_at"`
}

// index is the JSON document stored in the bucket, keyed by article url.
type index struct {
	Articles map[string]*indexEntry `json:"articles"`
}

func newIndex() *index {
	return &index{Articles: make(map[string]*indexEntry)}
}

func (ix *index) has(url string) bool {
	_, ok := ix.Articles[url]
	return ok
}

// add reports false when the url is already indexed.
func (ix *index) add(a model.Article, now time.Time) bool {
	if ix.has(a.URL) {
		return false
	}
	ix.Articles[a.URL] = &indexEntry{Article: a, CreatedAt: now.UTC()}
	return true
}

// newest returns up to limit articles, newest published first. Entries with
// the same published value are ordered by insertion time, newest first.
func (ix *index) newest(limit int) []model.Article {
	entries := make([]*indexEntry, 0, len(ix.Articles))
	for _, e := range ix.Articles {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		pi, pj := entries[i].Article.Published, entries[j].Article.Published
		if pi != pj {
			return pi > pj
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Article.URL < entries[j].Article.URL
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	articles := make([]model.Article, 0, len(entries))
	for _, e := range entries {
		articles = append(articles, e.Article)
	}
	return articles
}
