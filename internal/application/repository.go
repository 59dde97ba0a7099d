package application

import (
	"context"
	"fmt"

	"github.com/newsdesk/article-ingestor/internal/config"
	"github.com/newsdesk/article-ingestor/internal/repository"
	"github.com/newsdesk/article-ingestor/internal/repository/gcs"
	"github.com/newsdesk/article-ingestor/internal/repository/mongo"
	"github.com/newsdesk/article-ingestor/internal/repository/postgres"
	"github.com/newsdesk/article-ingestor/internal/repository/sqlite"
	"github.com/newsdesk/article-ingestor/internal/repository/supabase"
)

// OpenRepository connects the article store selected by cfg.StoreBackend.
func OpenRepository(ctx context.Context, cfg *config.Config) (repository.ArticleRepository, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return opened(postgres.Open(ctx, cfg.DatabaseURL, cfg.DatabaseSSLMode))
	case config.BackendSupabase:
		return opened(supabase.New(supabase.Config{
			URL:    cfg.SupabaseURL,
			Key:    cfg.SupabaseKey,
			Table:  cfg.SupabaseTable,
			UseRPC: cfg.SupabaseUseRPC,
		}))
	case config.BackendSQLite:
		return opened(sqlite.Open(ctx, cfg.SQLitePath()))
	case config.BackendMongo:
		return opened(mongo.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase, cfg.MongoCollection))
	case config.BackendGCS:
		return opened(gcs.Open(ctx, gcs.Config{
			Bucket:          cfg.GCSBucket,
			Object:          cfg.GCSObject,
			CredentialsFile: cfg.GCSCredentialsFile,
		}))
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// opened keeps a failed constructor from yielding a non-nil interface.
func opened[T repository.ArticleRepository](repo T, err error) (repository.ArticleRepository, error) {
	if err != nil {
		return nil, err
	}
	return repo, nil
}
