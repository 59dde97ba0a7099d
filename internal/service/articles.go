package service

import (
	"context"
	"fmt"
	"log"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/newsdesk/article-ingestor/internal/classify"
	"github.com/newsdesk/article-ingestor/internal/model"
	"github.com/newsdesk/article-ingestor/internal/repository"
)

// Articles serves reads and single-article writes against the store.
type Articles struct {
	repo     repository.ArticleRepository
	classify bool
}

func NewArticles(repo repository.ArticleRepository, classifyEnabled bool) *Articles {
	return &Articles{repo: repo, classify: classifyEnabled}
}

func (s *Articles) List(ctx context.Context, limit int) ([]model.Article, error) {
	articles, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

// Create stores the article unless its url is already present. The returned
// bool reports whether a record was written.
func (s *Articles) Create(ctx context.Context, article model.Article) (bool, error) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)

	if err := article.Validate(); err != nil {
		return false, err
	}
	if s.classify && article.Category == "" {
		applyClassification(&article)
	}

	exists, err := s.repo.Exists(ctx, article.URL)
	if err != nil {
		return false, fmt.Errorf("checking article: %w", err)
	}
	if exists {
		logger.Printf("Article already stored url=%s", article.URL)
		return false, nil
	}

	inserted, err := s.repo.Insert(ctx, article)
	if err != nil {
		return false, fmt.Errorf("inserting article: %w", err)
	}
	logger.Printf("Article create completed url=%s inserted=%t category=%s", article.URL, inserted, article.Category)
	return inserted, nil
}

func applyClassification(article *model.Article) {
	result := classify.Classify(article.Title, article.Description)
	article.Category = result.Category
	article.CategoryScores = result.Scores
}
