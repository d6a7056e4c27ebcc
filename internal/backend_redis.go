package internal

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "resume-session:"

// RedisBackend stores each session record as a JSON string under
// <prefix>session:<id> and keeps the set of ids under <prefix>index.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisBackend connects to the server described by cfg. Addr may be a
// plain host:port or a redis:// URI. A positive ttl expires idle records.
func NewRedisBackend(cfg RedisConfig, ttl time.Duration) (*RedisBackend, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, &StorageError{Backend: BackendRedis, Op: "open", Key: cfg.Addr, Err: err}
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	return NewRedisBackendFromClient(redis.NewClient(opts), cfg.KeyPrefix, ttl), nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

func (b *RedisBackend) sessionKey(id string) string {
	return b.prefix + "session:" + id
}

func (b *RedisBackend) indexKey() string {
	return b.prefix + "index"
}

func (b *RedisBackend) Name() string { return BackendRedis }

func (b *RedisBackend) Load(ctx context.Context, id string) (*SessionRecord, error) {
	value, err := b.client.Get(ctx, b.sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, &StorageError{Backend: BackendRedis, Op: "load", Key: id, Err: err}
	}
	return decodeRecord(id, []byte(value))
}

func (b *RedisBackend) Save(ctx context.Context, rec SessionRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return &StorageError{Backend: BackendRedis, Op: "save", Key: rec.ID, Err: err}
	}
	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.sessionKey(rec.ID), data, b.ttl)
		pipe.SAdd(ctx, b.indexKey(), rec.ID)
		return nil
	})
	if err != nil {
		return &StorageError{Backend: BackendRedis, Op: "save", Key: rec.ID, Err: err}
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.sessionKey(id))
		pipe.SRem(ctx, b.indexKey(), id)
		return nil
	})
	if err != nil {
		return &StorageError{Backend: BackendRedis, Op: "delete", Key: id, Err: err}
	}
	return nil
}

// List returns the indexed ids whose records still exist. Ids whose record
// expired are dropped from the index on the way.
func (b *RedisBackend) List(ctx context.Context) ([]string, error) {
	members, err := b.client.SMembers(ctx, b.indexKey()).Result()
	if err != nil {
		return nil, &StorageError{Backend: BackendRedis, Op: "list", Err: err}
	}

	ids := make([]string, 0, len(members))
	for _, id := range members {
		n, err := b.client.Exists(ctx, b.sessionKey(id)).Result()
		if err != nil {
			return nil, &StorageError{Backend: BackendRedis, Op: "list", Key: id, Err: err}
		}
		if n == 0 {
			b.client.SRem(ctx, b.indexKey(), id)
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return &StorageError{Backend: BackendRedis, Op: "ping", Err: err}
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
