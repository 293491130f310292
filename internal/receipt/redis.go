package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "receipt-processor"

// RedisDB implements the DB interface with one JSON string key per receipt:
// {prefix}:receipt:{id}
type RedisDB struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisDB connects to the Redis server at url and verifies it with a PING.
// A zero ttl keeps records until they are evicted.
func NewRedisDB(ctx context.Context, url, prefix string, ttl time.Duration) (*RedisDB, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisDBWithClient(client, prefix, ttl), nil
}

// NewRedisDBWithClient wraps an existing client
func NewRedisDBWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisDB {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisDB{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisDB) key(id string) string {
	return fmt.Sprintf("%s:receipt:%s", r.prefix, id)
}

// SavePoints stores the record as JSON
func (r *RedisDB) SavePoints(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if err := r.client.Set(ctx, r.key(record.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("saving record to redis: %w", err)
	}
	return nil
}

// GetPoints retrieves a record by ID
func (r *RedisDB) GetPoints(ctx context.Context, id string) (*Record, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record from redis: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return &record, nil
}

// Close closes the Redis client
func (r *RedisDB) Close() error {
	return r.client.Close()
}
