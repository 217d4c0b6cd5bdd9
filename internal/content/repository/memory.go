package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sitedash/sitedash/internal/content"
)

// MemoryRepo keeps the document in process memory. It is used when no
// MongoDB URI is configured and by unit tests.
type MemoryRepo struct {
	mu  sync.RWMutex
	doc *content.Document
	now func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

func (m *MemoryRepo) Get(ctx context.Context) (*content.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return nil, ErrNotFound
	}
	return m.doc.Clone(), nil
}

// InsertDefault stores the default document unless one already exists, in
// which case the existing document is returned.
func (m *MemoryRepo) InsertDefault(ctx context.Context) (*content.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		m.doc = content.Default()
	}
	return m.doc.Clone(), nil
}

func (m *MemoryRepo) Upsert(ctx context.Context, doc *content.Document) (*content.SaveOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := doc.Clone()
	rec.Type = content.DocumentType
	ts := m.now().UTC()
	rec.UpdatedAt = &ts

	out := &content.SaveOutcome{Success: true, Message: SavedMessage}
	if m.doc == nil {
		out.UpsertedCount = 1
	} else {
		out.ModifiedCount = 1
	}
	m.doc = rec
	return out, nil
}

func (m *MemoryRepo) Ping(ctx context.Context) error { return ctx.Err() }
