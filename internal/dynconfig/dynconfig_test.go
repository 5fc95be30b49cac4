package dynconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestLoadFromStore(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewStore(Default())
	name := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, rdb.Set(context.Background(), name, `{"on": false, "margin": 0.25}`, 0).Err())

	loader := NewLoader(store, rdb, name, time.Second, time.Hour)
	require.NoError(t, loader.Load(context.Background()))

	cfg := store.Current()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0.25, cfg.Margin)
}

func TestLoadFallsBackToFileAndWritesBack(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewStore(Default())
	name := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, os.WriteFile(name, []byte(`{"on": true, "margin": 0.1}`), 0o644))

	loader := NewLoader(store, rdb, name, time.Second, time.Hour)
	require.NoError(t, loader.Load(context.Background()))

	cfg := store.Current()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 0.1, cfg.Margin)

	// Written back so other instances converge, with a TTL.
	stored, err := rdb.Get(context.Background(), name).Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"on": true, "margin": 0.1}`, stored)
	assert.Greater(t, mr.TTL(name), time.Duration(0))
}

func TestLoadKeepsPreviousSnapshotWhenSourcesAbsent(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := NewStore(Config{Enabled: false, Margin: 0.5})
	name := filepath.Join(t.TempDir(), "config.json")

	loader := NewLoader(store, rdb, name, time.Second, time.Hour)
	require.NoError(t, loader.Load(context.Background()))

	cfg := store.Current()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0.5, cfg.Margin)
}

func TestStoreSwapIsWholesale(t *testing.T) {
	store := NewStore(Config{Enabled: true, Margin: 0.1})
	store.replace(Config{Enabled: false, Margin: 0.2})

	cfg := store.Current()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 0.2, cfg.Margin)
}
