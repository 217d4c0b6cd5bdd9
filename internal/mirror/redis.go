package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sitedash/sitedash/internal/content"
)

// DefaultKey is the single key holding the serialized document.
const DefaultKey = "dashboardData"

// RedisMirror keeps the document as JSON under one Redis key. A zero TTL
// keeps the copy until it is overwritten.
type RedisMirror struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisMirror creates a Redis-backed mirror. Key may be empty.
func NewRedisMirror(client *redis.Client, key string, ttl time.Duration) *RedisMirror {
	if key == "" {
		key = DefaultKey
	}
	return &RedisMirror{client: client, key: key, ttl: ttl}
}

func (r *RedisMirror) Store(ctx context.Context, d *content.Document) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, b, r.ttl).Err()
}

func (r *RedisMirror) Load(ctx context.Context) (*content.Document, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var d content.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
