package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/repository"
	"github.com/sitedash/sitedash/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service is the server-side content store: read-triggers-create on Fetch
// and a last-write-wins upsert on Save.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection.
func NewMongoService(ctx context.Context, col *mongo.Collection) (*Service, error) {
	repo, err := repository.NewMongoRepo(ctx, col)
	if err != nil {
		return nil, err
	}
	return New(repo), nil
}

// Fetch returns the content document, creating it with defaults when the
// store is empty. It never reports not-found.
func (s *Service) Fetch(ctx context.Context) (*content.Document, error) {
	d, err := s.repo.Get(ctx)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	logger.Infof("no content document found; writing defaults")
	d, err = s.repo.InsertDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("create default content: %w", err)
	}
	return d, nil
}

// Save upserts doc. The caller is expected to have validated it.
func (s *Service) Save(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error) {
	out, err := s.repo.Upsert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save content: %w", err)
	}
	logger.Debugf("content saved: modified=%d upserted=%d", out.ModifiedCount, out.UpsertedCount)
	return out, nil
}

// Ping reports whether the backing database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
