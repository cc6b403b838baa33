package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// AvailabilityCache stores the available-hero identifiers of a game.
//
// Every game carries a version that Invalidate bumps. Readers take the
// version before loading accounts and pass it to Set, which drops the write
// when the version moved in between. Writers to a game's accounts must call
// Invalidate after the write is committed.
type AvailabilityCache interface {
	Get(ctx context.Context, gameID uuid.UUID) ([]string, bool, error)
	Version(ctx context.Context, gameID uuid.UUID) (int64, error)
	Set(ctx context.Context, gameID uuid.UUID, version int64, ids []string) error
	Invalidate(ctx context.Context, gameID uuid.UUID) error
}

const (
	keyPrefix        = "availability:"
	versionKeyPrefix = "availability:version:"
)

func key(gameID uuid.UUID) string {
	return keyPrefix + gameID.String()
}

func versionKey(gameID uuid.UUID) string {
	return versionKeyPrefix + gameID.String()
}

type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAvailabilityCache connects to redisURL and verifies the connection.
func NewRedisAvailabilityCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisAvailabilityCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisAvailabilityCache{client: client, ttl: ttl}, nil
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, gameID uuid.UUID) ([]string, bool, error) {
	data, err := c.client.Get(ctx, key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func (c *RedisAvailabilityCache) Version(ctx context.Context, gameID uuid.UUID) (int64, error) {
	return readVersion(ctx, c.client, gameID)
}

// Set writes ids only while the game's version still equals version. The
// version key is watched, so an Invalidate racing with the write aborts it.
func (c *RedisAvailabilityCache) Set(ctx context.Context, gameID uuid.UUID, version int64, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(gameID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey(gameID))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, gameID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(gameID))
		pipe.Del(ctx, key(gameID))
		return nil
	})
	return err
}

func (c *RedisAvailabilityCache) Close() error {
	return c.client.Close()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd getter, gameID uuid.UUID) (int64, error) {
	v, err := cmd.Get(ctx, versionKey(gameID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// MemoryAvailabilityCache is the in-process fallback used when no Redis URL
// is configured.
type MemoryAvailabilityCache struct {
	mu       sync.RWMutex
	entries  map[uuid.UUID]memoryEntry
	versions map[uuid.UUID]int64
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	ids     []string
	expires time.Time
}

func NewMemoryAvailabilityCache(ttl time.Duration) *MemoryAvailabilityCache {
	return &MemoryAvailabilityCache{
		entries:  make(map[uuid.UUID]memoryEntry),
		versions: make(map[uuid.UUID]int64),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemoryAvailabilityCache) Get(_ context.Context, gameID uuid.UUID) ([]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[gameID]
	if !ok || (c.ttl > 0 && c.now().After(e.expires)) {
		return nil, false, nil
	}
	return append([]string(nil), e.ids...), true, nil
}

func (c *MemoryAvailabilityCache) Version(_ context.Context, gameID uuid.UUID) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versions[gameID], nil
}

func (c *MemoryAvailabilityCache) Set(_ context.Context, gameID uuid.UUID, version int64, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[gameID] != version {
		return nil
	}
	c.entries[gameID] = memoryEntry{
		ids:     append([]string{}, ids...),
		expires: c.now().Add(c.ttl),
	}
	return nil
}

func (c *MemoryAvailabilityCache) Invalidate(_ context.Context, gameID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[gameID]++
	delete(c.entries, gameID)
	return nil
}
