package repository

import (
	"context"
	"errors"

	"github.com/sitedash/sitedash/internal/content"
)

var (
	ErrNotFound = errors.New("content document not found")
)

// Repository persists the singleton content document. Upsert must be a single
// atomic replace-or-insert keyed by content.DocumentType.
type Repository interface {
	Get(ctx context.Context) (*content.Document, error)
	InsertDefault(ctx context.Context) (*content.Document, error)
	Upsert(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error)
	Ping(ctx context.Context) error
}
