package storage_test

import (
	"context"
	"os"
	"testing"

	coded "github.com/arthur-debert/asprules/pkg/errors"
	"github.com/arthur-debert/asprules/pkg/storage"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Key(t *testing.T) {
	r := storage.NewRedis(redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	assert.Equal(t, "asprules:asp:rules", r.Key("asp:rules"))

	r = storage.NewRedis(nil, storage.WithPrefix("test:"))
	assert.Equal(t, "test:asp:rules", r.Key("asp:rules"))
}

// TestRedis_Integration needs a live server: ASPRULES_TEST_REDIS_ADDR=localhost:6379
func TestRedis_Integration(t *testing.T) {
	addr := os.Getenv("ASPRULES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ASPRULES_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	prefix := "asprules-test:" + t.Name() + ":"
	r := storage.NewRedis(client, storage.WithPrefix(prefix))
	t.Cleanup(func() { client.Del(ctx, r.Key("asp:rules")) })

	_, found, err := r.Get(ctx, "asp:rules")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.Set(ctx, "asp:rules", sampleValue()))
	got, found, err := r.Get(ctx, "asp:rules")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sampleValue(), got)
}

func TestOpen_UnreachableRedis(t *testing.T) {
	ctx := context.Background()

	s, closer, err := storage.Open(ctx, storage.Options{
		Backend:   storage.BackendRedis,
		RedisAddr: "127.0.0.1:1",
	})
	require.NoError(t, err, "an unreachable server does not abort")
	t.Cleanup(func() { _ = closer.Close() })

	_, found, err := s.Get(ctx, "asp:rules")
	assert.False(t, found)
	assert.True(t, coded.IsErrorCode(err, coded.ErrStorageRead))
}
