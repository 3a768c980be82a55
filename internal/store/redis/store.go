// Package redis stores the configuration as one JSON value in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/store"
)

// Repository reads and writes the configuration key. Values carry no TTL.
type Repository struct {
	client  *redis.Client
	profile string
	now     func() time.Time
}

// NewRepository creates a repository over an established client.
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client, profile: DefaultProfile, now: time.Now}
}

func (r *Repository) Name() string { return "redis" }

// Get decodes the stored configuration.
func (r *Repository) Get(ctx context.Context) (*domain.Configuration, error) {
	data, err := r.client.Get(ctx, ConfigKey(r.profile)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}

	var cfg domain.Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

// Put writes the configuration and its update time in one transaction.
func (r *Repository) Put(ctx context.Context, cfg *domain.Configuration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, ConfigKey(r.profile), data, 0)
		pipe.Set(ctx, UpdatedAtKey(r.profile), r.now().UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// UpdatedAt returns the time of the last Put, zero when never written.
func (r *Repository) UpdatedAt(ctx context.Context) (time.Time, error) {
	v, err := r.client.Get(ctx, UpdatedAtKey(r.profile)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get update time: %w", err)
	}
	return time.Parse(time.RFC3339, v)
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Repository) Close() error {
	return r.client.Close()
}
