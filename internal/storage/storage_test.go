package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskflow/internal/config"
)

const testRedisAddr = "localhost:6379"

// exercise runs the behavior every adapter must share
func exercise(t *testing.T, a Adapter) {
	t.Helper()

	_, ok, err := a.Get("tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Set("tasks", `[{"id":"a"}]`))
	v, ok, err := a.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	require.NoError(t, a.Set("tasks", `[]`))
	v, _, err = a.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, a.Set("tags", ""))
	v, ok, err = a.Get("tags")
	require.NoError(t, err)
	assert.True(t, ok, "empty string is a value, not absence")
	assert.Equal(t, "", v)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exercise(t, m)

	require.NoError(t, m.Close())
	err := m.Set("tasks", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClosed))

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "set", se.Op)
	assert.Equal(t, "tasks", se.Key)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskflow.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	exercise(t, s)
	require.NoError(t, s.Close())

	// Data survives reopening
	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestSQLite_ClosedReportsStorageError(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Set("tasks", "[]")
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "set", se.Op)
}

func TestRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	prefix := "taskflow-test:" + time.Now().Format("150405.000000") + ":"
	defer client.Del(ctx, prefix+"tasks", prefix+"tags")

	r := NewRedis(client, prefix, time.Second)
	exercise(t, r)

	raw, err := client.Get(ctx, prefix+"tasks").Result()
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
	require.NoError(t, r.Close())
}

func TestStorageError(t *testing.T) {
	cause := errors.New("boom")
	err := wrap("get", "tags", cause)
	assert.EqualError(t, err, `storage get "tags": boom`)
	assert.True(t, errors.Is(err, cause))

	// Already wrapped errors are not wrapped twice
	assert.Same(t, err, wrap("set", "tasks", err))
	assert.Nil(t, wrap("get", "tags", nil))
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Backend = config.BackendMemory
	a, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, a)

	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.DataDir = t.TempDir()
	a, err = Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, a)
	require.NoError(t, a.Close())

	cfg.Storage.Backend = "localstorage"
	_, err = Open(cfg)
	assert.Error(t, err)
}
