// Package cache stores assembled library snapshots in Redis so one upstream
// fetch serves many requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rxcampus/internal/library/models"
	"rxcampus/pkg/platform/sentinel"
)

const snapshotKey = "library:snapshot:v1"

// Redis caches the whole library snapshot under a single key with TTL.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// GetSnapshot loads the cached snapshot. A missing or expired key yields
// sentinel.ErrNotFound.
func (c *Redis) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A corrupt entry behaves like a miss; the next write replaces it.
		return nil, sentinel.ErrNotFound
	}
	return &snap, nil
}

// SetSnapshot stores the snapshot with expiry.
func (c *Redis) SetSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Purge drops the cached snapshot.
func (c *Redis) Purge(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("purge snapshot: %w", err)
	}
	return nil
}
