package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sitedash/sitedash/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := DialMongo(ctx, uri, timeout)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// DialMongo builds a client without waiting for the server. The driver
// keeps monitoring the deployment in the background, so operations start
// succeeding once it becomes reachable; until then they fail after the
// server selection timeout.
func DialMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(uri).SetAppName("sitedash")
	if timeout > 0 && clientOpts.ServerSelectionTimeout == nil {
		clientOpts.SetServerSelectionTimeout(timeout)
	}
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return client, nil
}

// ConnectWithRetry calls ConnectMongo up to attempts times, doubling the
// wait between tries starting from backoff. It gives up early when ctx ends.
func ConnectWithRetry(ctx context.Context, uri string, timeout time.Duration, attempts int, backoff time.Duration) (*mongo.Client, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := ConnectMongo(ctx, uri, timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, attempts, err)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", attempts, lastErr)
}
