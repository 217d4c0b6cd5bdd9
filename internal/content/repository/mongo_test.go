package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection emulates a collection holding at most one record.
type fakeCollection struct {
	stored     *content.Document
	filters    []interface{}
	upsertOpt  bool
	replaceErr error
	findErr    error
}

func (f *fakeCollection) FindOne(ctx context.Context, flt interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	f.filters = append(f.filters, flt)
	if f.findErr != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.findErr, nil)
	}
	if f.stored == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(f.stored, nil, nil)
}

func (f *fakeCollection) InsertOne(ctx context.Context, doc interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.stored != nil {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	}
	f.stored = doc.(*content.Document).Clone()
	return &mongo.InsertOneResult{InsertedID: "1"}, nil
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, flt interface{}, repl interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	f.filters = append(f.filters, flt)
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	for _, o := range opts {
		if o.Upsert != nil && *o.Upsert {
			f.upsertOpt = true
		}
	}
	existed := f.stored != nil
	f.stored = repl.(*content.Document).Clone()
	if existed {
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: "1"}, nil
}

func newFakeRepo(col *fakeCollection) *MongoRepo {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &MongoRepo{col: col, now: func() time.Time { return fixed }}
}

func TestMongoRepo_GetMissing(t *testing.T) {
	r := newFakeRepo(&fakeCollection{})
	_, err := r.Get(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMongoRepo_GetWrapsDriverErrors(t *testing.T) {
	boom := errors.New("connection refused")
	r := newFakeRepo(&fakeCollection{findErr: boom})
	_, err := r.Get(context.Background())
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestMongoRepo_UpsertInsertsThenReplaces(t *testing.T) {
	col := &fakeCollection{}
	r := newFakeRepo(col)
	ctx := context.Background()

	payload := content.Default().Payload()
	payload.Header.Title = "Hello"

	out, err := r.Upsert(ctx, payload)
	require.NoError(t, err)
	require.True(t, out.Success)
	require.Equal(t, int64(0), out.ModifiedCount)
	require.Equal(t, int64(1), out.UpsertedCount)
	require.True(t, col.upsertOpt, "ReplaceOne must be called with upsert")
	require.Equal(t, bson.M{"type": content.DocumentType}, col.filters[0])

	out, err = r.Upsert(ctx, payload)
	require.NoError(t, err)
	require.Equal(t, int64(1), out.ModifiedCount)
	require.Equal(t, int64(0), out.UpsertedCount)

	// caller's payload is not mutated
	require.Empty(t, payload.Type)
	require.Nil(t, payload.UpdatedAt)

	got, err := r.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, content.DocumentType, got.Type)
	require.NotNil(t, got.UpdatedAt)
	require.True(t, got.UpdatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.Equal(t, payload, got.Payload())
}

func TestMongoRepo_InsertDefaultRace(t *testing.T) {
	col := &fakeCollection{}
	r := newFakeRepo(col)
	ctx := context.Background()

	d, err := r.InsertDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, content.Default(), d)

	// a second insert hits the unique index and returns the stored record
	col.stored.Header.Title = "already there"
	d2, err := r.InsertDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, "already there", d2.Header.Title)
}

func TestMongoRepo_UpsertError(t *testing.T) {
	boom := errors.New("write concern")
	r := newFakeRepo(&fakeCollection{replaceErr: boom})
	_, err := r.Upsert(context.Background(), content.Default())
	require.ErrorIs(t, err, boom)
}

func TestMongoRepo_PingWithoutClient(t *testing.T) {
	r := newFakeRepo(&fakeCollection{})
	require.Error(t, r.Ping(context.Background()))
}

func TestMongoRepo_InsertDefaultRetriesIndexUntilCreated(t *testing.T) {
	col := &fakeCollection{}
	r := newFakeRepo(col)
	calls := 0
	down := errors.New("no reachable servers")
	r.index = func(context.Context) error {
		calls++
		if calls == 1 {
			return down
		}
		return nil
	}
	ctx := context.Background()

	_, err := r.InsertDefault(ctx)
	require.ErrorIs(t, err, down)
	require.Nil(t, col.stored)

	_, err = r.InsertDefault(ctx)
	require.NoError(t, err)
	_, err = r.InsertDefault(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestWrapMongoUnreachableServer(t *testing.T) {
	// mongo.Connect does not dial, so the repository can be built while
	// the server is down and every call then reports the outage.
	client, err := mongo.Connect(context.Background(),
		options.Client().ApplyURI("mongodb://127.0.0.1:1/?connect=direct&serverSelectionTimeoutMS=200"))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	r := WrapMongo(client.Database("dashboard_app").Collection("components"))
	ctx := context.Background()
	require.Error(t, r.Ping(ctx))
	_, err = r.Get(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	_, err = r.InsertDefault(ctx)
	require.Error(t, err)
	_, err = r.Upsert(ctx, content.Default())
	require.Error(t, err)
}
