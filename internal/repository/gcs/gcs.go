package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/newsdesk/article-ingestor/internal/model"
)

const DefaultObject = "articles/index.json"

type Config struct {
	Bucket          string
	Object          string
	CredentialsFile string
}

// Repository keeps every article in a single JSON index object.
type Repository struct {
	client *storage.Client
	obj    *storage.ObjectHandle
	mu     sync.Mutex
}

func Open(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	object := cfg.Object
	if object == "" {
		object = DefaultObject
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Repository{
		client: client,
		obj:    client.Bucket(cfg.Bucket).Object(object),
	}, nil
}

// load returns the index and the generation it was read at (0 if absent).
func (r *Repository) load(ctx context.Context) (*index, int64, error) {
	reader, err := r.obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return newIndex(), 0, nil
		}
		return nil, 0, fmt.Errorf("failed to read index: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read index: %w", err)
	}

	ix := newIndex()
	if err := json.Unmarshal(data, ix); err != nil {
		return nil, 0, fmt.Errorf("failed to decode index: %w", err)
	}
	if ix.Articles == nil {
		ix.Articles = make(map[string]*indexEntry)
	}
	return ix, reader.Attrs.Generation, nil
}

func (r *Repository) save(ctx context.Context, ix *index, generation int64) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	cond := storage.Conditions{GenerationMatch: generation}
	if generation == 0 {
		cond = storage.Conditions{DoesNotExist: true}
	}

	writer := r.obj.If(cond).NewWriter(ctx)
	writer.ContentType = "application/json"
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, url string) (bool, error) {
	ix, _, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	return ix.has(url), nil
}

func (r *Repository) Insert(ctx context.Context, a model.Article) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ix, generation, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	if !ix.add(a, time.Now()) {
		return false, nil
	}
	if err := r.save(ctx, ix, generation); err != nil {
		return false, fmt.Errorf("inserting article %s: %w", a.URL, err)
	}
	return true, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]model.Article, error) {
	ix, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return ix.newest(limit), nil
}

func (r *Repository) Close() error {
	return r.client.Close()
}
