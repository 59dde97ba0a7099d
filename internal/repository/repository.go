package repository

import (
	"context"

	"github.com/newsdesk/article-ingestor/internal/model"
)

// ArticleRepository is the persistence port for the article collection.
// Implementations treat an insert of an already stored URL as a no-op.
type ArticleRepository interface {
	Exists(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, article model.Article) (bool, error)
	List(ctx context.Context, limit int) ([]model.Article, error)
	Close() error
}
