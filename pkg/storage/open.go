package storage

import (
	"context"
	"io"
	"strings"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/logging"
	"github.com/go-redis/redis/v8"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// File backend
	Dir    string
	Format string

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the backend described by opts. The returned closer releases
// backend resources and is never nil.
func Open(ctx context.Context, opts Options) (Storage, io.Closer, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, nil, errors.New(errors.ErrConfigValid, "file storage requires a directory")
		}
		codec, err := CodecFor(opts.Format)
		if err != nil {
			return nil, nil, err
		}
		return NewFile(opts.Dir, WithCodec(codec)), nopCloser{}, nil

	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, nil, errors.New(errors.ErrConfigValid, "redis storage requires an address")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		// An unreachable server is not fatal: reads fail and the store falls
		// back to the default rules.
		if err := client.Ping(ctx).Err(); err != nil {
			logger := logging.GetLogger("storage")
			logger.Warn().Err(err).Str("addr", opts.RedisAddr).
				Msg("redis unreachable, rules will load from defaults")
		}
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		return NewRedis(client, WithPrefix(prefix)), client, nil

	case BackendMemory:
		return NewMemory(), nopCloser{}, nil
	}

	return nil, nil, errors.Newf(errors.ErrConfigValid, "unknown storage backend %q", opts.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
