// Package dynconfig holds the process-wide dynamic configuration: a
// feature toggle for the search surface and the price margin. The
// snapshot is refreshed on an interval from the shared store, falling
// back to a bootstrap file, and is swapped wholesale so readers never
// observe a partial update.
package dynconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dynconfig_reloads_total",
	Help: "The total number of dynamic config reloads, by source",
}, []string{"source"})

// Config mirrors the stored config.json. Wire keys are shared with other
// instances.
type Config struct {
	Enabled bool    `json:"on"`
	Margin  float64 `json:"margin"`
}

// Default matches the bootstrap values the system starts with before the
// first successful load.
func Default() Config {
	return Config{Enabled: true, Margin: 0}
}

// Store is an atomically swapped snapshot holder. Written only by the
// Loader, read everywhere else.
type Store struct {
	cur atomic.Pointer[Config]
}

func NewStore(initial Config) *Store {
	s := &Store{}
	s.cur.Store(&initial)
	return s
}

func (s *Store) Current() Config {
	return *s.cur.Load()
}

func (s *Store) replace(c Config) {
	s.cur.Store(&c)
}

type Loader struct {
	store    *Store
	rdb      *redis.Client
	name     string
	interval time.Duration
	ttl      time.Duration
}

func NewLoader(store *Store, rdb *redis.Client, name string, interval, ttl time.Duration) *Loader {
	return &Loader{
		store:    store,
		rdb:      rdb,
		name:     name,
		interval: interval,
		ttl:      ttl,
	}
}

// Load performs one refresh cycle: store first, bootstrap file second.
// When the file is the source, the value is written back to the store
// with a TTL so other instances converge on it. If neither source has a
// value the previous snapshot is kept unchanged.
func (l *Loader) Load(ctx context.Context) error {
	val, err := l.rdb.Get(ctx, l.name).Result()
	switch {
	case err == nil:
		var cfg Config
		if err := json.Unmarshal([]byte(val), &cfg); err != nil {
			return fmt.Errorf("unmarshal config from store: %w", err)
		}
		l.store.replace(cfg)
		configReloads.WithLabelValues("store").Inc()
		return nil
	case !errors.Is(err, redis.Nil):
		return fmt.Errorf("read config from store: %w", err)
	}

	data, err := os.ReadFile(l.name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read bootstrap config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("unmarshal bootstrap config: %w", err)
	}
	l.store.replace(cfg)
	configReloads.WithLabelValues("file").Inc()
	if err := l.rdb.Set(ctx, l.name, data, l.ttl).Err(); err != nil {
		return fmt.Errorf("write config back to store: %w", err)
	}
	return nil
}

// Run refreshes on a fixed interval until the context is cancelled. A
// failed cycle keeps the previous snapshot and is retried next tick.
func (l *Loader) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("dynamic config loader started", "name", l.name, "interval", l.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.Load(ctx); err != nil {
				slog.Error("dynamic config reload failed", "error", err)
			}
		}
	}
}
