package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsdesk/article-ingestor/internal/model"
)

const (
	DefaultDatabase   = "news"
	DefaultCollection = "articles"
)

type document struct {
	FeedURL        string             `bson:"feed_url,omitempty"`
	Title          string             `bson:"title"`
	URL            string             `bson:"url"`
	Author         string             `bson:"author,omitempty"`
	Published      string             `bson:"published,omitempty"`
	Description    string             `bson:"description,omitempty"`
	Summary        string             `bson:"summary,omitempty"`
	Category       string             `bson:"category,omitempty"`
	CategoryScores map[string]float64 `bson:"category_scores,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func toDocument(a model.Article, now time.Time) document {
	return document{
		FeedURL:        a.FeedURL,
		Title:          a.Title,
		URL:            a.URL,
		Author:         a.Author,
		Published:      a.Published,
		Description:    a.Description,
		Summary:        a.Summary,
		Category:       a.Category,
		CategoryScores: a.CategoryScores,
		CreatedAt:      now.UTC(),
	}
}

func (d document) article() model.Article {
	return model.Article{
		FeedURL:        d.FeedURL,
		Title:          d.Title,
		URL:            d.URL,
		Author:         d.Author,
		Published:      d.Published,
		Description:    d.Description,
		Summary:        d.Summary,
		Category:       d.Category,
		CategoryScores: d.CategoryScores,
	}
}

type Repository struct {
	client   *mongo.Client
	articles *mongo.Collection
}

func Open(ctx context.Context, uri, database, collection string) (*Repository, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	r := &Repository{
		client:   client,
		articles: client.Database(database).Collection(collection),
	}
	if err := r.createIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return r, nil
}

func (r *Repository) createIndexes(ctx context.Context) error {
	_, err := r.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "published", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, url string) (bool, error) {
	n, err := r.articles.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking article %s: %w", url, err)
	}
	return n > 0, nil
}

// Insert upserts with $setOnInsert so an existing url is left untouched.
func (r *Repository) Insert(ctx context.Context, a model.Article) (bool, error) {
	res, err := r.articles.UpdateOne(ctx,
		bson.M{"url": a.URL},
		bson.M{"$setOnInsert": toDocument(a, time.Now())},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("inserting article %s: %w", a.URL, err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]model.Article, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.articles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer cursor.Close(ctx)

	articles := []model.Article{}
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding article: %w", err)
		}
		articles = append(articles, doc.article())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
