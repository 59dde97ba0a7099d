package application

import (
	"context"
	"fmt"

	"github.com/newsdesk/article-ingestor/internal/config"
	"github.com/newsdesk/article-ingestor/internal/repository"
	"github.com/newsdesk/article-ingestor/internal/rss"
	"github.com/newsdesk/article-ingestor/internal/service"
	"github.com/newsdesk/article-ingestor/internal/service/limiter"
	"github.com/newsdesk/article-ingestor/internal/transport/handler"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// Application represents the application with all business logic components
type Application struct {
	Config          *config.Config
	Articles        *service.Articles
	Ingest          *service.Ingest
	ArticlesHandler *handler.ArticlesHandler
	FetchHandler    *handler.FetchHandler
	HealthHandler   *handler.HealthHandler
	cleanup         func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	repo, err := OpenRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	return NewWithRepository(cfg, repo), nil
}

// NewWithRepository wires the application around an already opened store.
// Close closes the store.
func NewWithRepository(cfg *config.Config, repo repository.ArticleRepository) *Application {
	// Create services (business logic)
	articles := service.NewArticles(repo, cfg.ClassifyEnabled)
	ingest := service.NewIngest(rss.NewClient(), repo, limiter.NewCapLimiter(cfg.FetchLimit), cfg.ClassifyEnabled)

	return &Application{
		Config:          cfg,
		Articles:        articles,
		Ingest:          ingest,
		ArticlesHandler: handler.NewArticlesHandler(articles, cfg.DefaultListLimit),
		FetchHandler:    handler.NewFetchHandler(ingest, cfg.FeedURL),
		HealthHandler:   handler.NewHealthHandler(Version),
		cleanup:         repo.Close,
	}
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
