package storage

import (
	"context"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces keys written by the Redis backend.
const DefaultRedisPrefix = "asprules:"

// Redis stores each key as a Redis string holding an encoded payload.
type Redis struct {
	client redis.Cmdable
	prefix string
	codec  Codec
}

// RedisOption configures a Redis backend.
type RedisOption func(*Redis)

// WithPrefix sets the key prefix (defaults to DefaultRedisPrefix).
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithRedisCodec sets the payload encoding (defaults to JSON).
func WithRedisCodec(c Codec) RedisOption {
	return func(r *Redis) { r.codec = c }
}

// NewRedis creates a Redis backend on an existing client.
func NewRedis(client redis.Cmdable, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: DefaultRedisPrefix, codec: JSONCodec{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the Redis key used for a storage key.
func (r *Redis) Key(key string) string {
	return r.prefix + key
}

// Get implements Storage.
func (r *Redis) Get(ctx context.Context, key string) (any, bool, error) {
	data, err := r.client.Get(ctx, r.Key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrStorageRead, "redis get %s", r.Key(key))
	}

	v, err := r.codec.Decode(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrStorageCodec, "decode %s", r.Key(key))
	}
	return v, true, nil
}

// Set implements Storage. Keys never expire.
func (r *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := r.codec.Encode(value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorageCodec, "encode %s", r.Key(key))
	}
	if err := r.client.Set(ctx, r.Key(key), data, 0).Err(); err != nil {
		return errors.Wrapf(err, errors.ErrStorageWrite, "redis set %s", r.Key(key))
	}
	return nil
}
