package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sitedash/sitedash/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const SavedMessage = "Component data saved successfully"

// collection is the subset of *mongo.Collection the repository uses.
type collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// MongoRepo stores the document in a MongoDB collection as a single record
// located by its "type" field.
type MongoRepo struct {
	col    collection
	client *mongo.Client
	now    func() time.Time

	// index creates the unique "type" index; nil once it is known to exist.
	index   func(ctx context.Context) error
	indexed atomic.Bool
}

// NewMongoRepo wraps col and ensures a unique index on "type" so a second
// record can never be inserted by a racing first read.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	m := WrapMongo(col)
	if err := m.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// WrapMongo wraps col without contacting the server. The "type" index is
// created before the first insert instead, so the repository can be built
// while MongoDB is still unreachable and starts working once it comes up.
func WrapMongo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{
		col:    col,
		client: col.Database().Client(),
		now:    time.Now,
		index: func(ctx context.Context) error {
			idx := mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}}, Options: options.Index().SetUnique(true)}
			_, err := col.Indexes().CreateOne(ctx, idx)
			return err
		},
	}
}

func (m *MongoRepo) ensureIndex(ctx context.Context) error {
	if m.index == nil || m.indexed.Load() {
		return nil
	}
	if err := m.index(ctx); err != nil {
		return fmt.Errorf("ensure type index: %w", err)
	}
	m.indexed.Store(true)
	return nil
}

func filter() bson.M { return bson.M{"type": content.DocumentType} }

func (m *MongoRepo) Get(ctx context.Context) (*content.Document, error) {
	var d content.Document
	if err := m.col.FindOne(ctx, filter()).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return &d, nil
}

// InsertDefault writes the default document. A duplicate-key error means a
// concurrent reader created it first; the stored record is returned instead.
func (m *MongoRepo) InsertDefault(ctx context.Context) (*content.Document, error) {
	if err := m.ensureIndex(ctx); err != nil {
		return nil, err
	}
	d := content.Default()
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return m.Get(ctx)
		}
		return nil, fmt.Errorf("insert default content: %w", err)
	}
	return d, nil
}

func (m *MongoRepo) Upsert(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error) {
	rec := doc.Clone()
	rec.Type = content.DocumentType
	ts := m.now().UTC()
	rec.UpdatedAt = &ts

	res, err := m.col.ReplaceOne(ctx, filter(), rec, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("upsert content: %w", err)
	}
	return &content.SaveOutcome{
		Success:       true,
		Message:       SavedMessage,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	if m.client == nil {
		return errors.New("mongo client not initialized")
	}
	return m.client.Ping(ctx, readpref.Primary())
}
